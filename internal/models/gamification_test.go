package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddXP_LevelDerivation(t *testing.T) {
	xp := &UserXP{Level: 1}

	xp.AddXP(50)
	assert.Equal(t, 50, xp.TotalXP)
	assert.Equal(t, 1, xp.Level)
	assert.Equal(t, 50, xp.XPToNextLevel())

	xp.AddXP(50)
	assert.Equal(t, 100, xp.TotalXP)
	assert.Equal(t, 2, xp.Level)
	assert.Equal(t, 100, xp.XPToNextLevel())

	xp.AddXP(250)
	assert.Equal(t, 350, xp.TotalXP)
	assert.Equal(t, 4, xp.Level)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestUpdateStreak(t *testing.T) {
	now := date(2026, time.March, 10)
	yesterday := date(2026, time.March, 9)
	lastWeek := date(2026, time.March, 3)

	t.Run("first quiz starts streak at one", func(t *testing.T) {
		xp := &UserXP{}
		xp.UpdateStreak(now)
		assert.Equal(t, 1, xp.CurrentStreak)
		assert.Equal(t, 1, xp.LongestStreak)
		require.NotNil(t, xp.LastQuizDate)
		assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), *xp.LastQuizDate)
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		earlier := date(2026, time.March, 10)
		xp := &UserXP{CurrentStreak: 4, LongestStreak: 4, LastQuizDate: &earlier}
		xp.UpdateStreak(now)
		assert.Equal(t, 4, xp.CurrentStreak)
		assert.Equal(t, 4, xp.LongestStreak)
	})

	t.Run("consecutive day extends streak", func(t *testing.T) {
		xp := &UserXP{CurrentStreak: 4, LongestStreak: 4, LastQuizDate: &yesterday}
		xp.UpdateStreak(now)
		assert.Equal(t, 5, xp.CurrentStreak)
		assert.Equal(t, 5, xp.LongestStreak)
	})

	t.Run("gap resets streak to one", func(t *testing.T) {
		xp := &UserXP{CurrentStreak: 9, LongestStreak: 9, LastQuizDate: &lastWeek}
		xp.UpdateStreak(now)
		assert.Equal(t, 1, xp.CurrentStreak)
		assert.Equal(t, 9, xp.LongestStreak)
	})

	t.Run("same calendar day across zones is a no-op", func(t *testing.T) {
		// The date column round-trips as UTC midnight; the server clock
		// may run in any zone.
		stored := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
		xp := &UserXP{CurrentStreak: 4, LongestStreak: 4, LastQuizDate: &stored}

		local := time.FixedZone("UTC+5", 5*60*60)
		xp.UpdateStreak(time.Date(2026, time.March, 10, 18, 0, 0, 0, local))

		assert.Equal(t, 4, xp.CurrentStreak)
		assert.Equal(t, 4, xp.LongestStreak)
	})

	t.Run("consecutive day across zones extends streak", func(t *testing.T) {
		stored := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
		xp := &UserXP{CurrentStreak: 4, LongestStreak: 4, LastQuizDate: &stored}

		local := time.FixedZone("UTC-7", -7*60*60)
		xp.UpdateStreak(time.Date(2026, time.March, 10, 6, 30, 0, 0, local))

		assert.Equal(t, 5, xp.CurrentStreak)
		assert.Equal(t, 5, xp.LongestStreak)
	})

	t.Run("longest never drops below current", func(t *testing.T) {
		xp := &UserXP{CurrentStreak: 2, LongestStreak: 2, LastQuizDate: &yesterday}
		xp.UpdateStreak(now)
		assert.GreaterOrEqual(t, xp.LongestStreak, xp.CurrentStreak)
	})
}

func TestDefaultAchievements(t *testing.T) {
	catalog := DefaultAchievements()
	assert.Len(t, catalog, 4)

	names := make(map[string]Achievement, len(catalog))
	for _, a := range catalog {
		names[a.Name] = a
		assert.Equal(t, 50, a.XPReward)
	}

	assert.Equal(t, AchievementStreak, names["Streak Master"].Type)
	assert.Equal(t, 7, names["Streak Master"].Requirement)
	assert.Equal(t, AchievementAccuracy, names["Sharp Shooter"].Type)
	assert.Equal(t, 90, names["Sharp Shooter"].Requirement)
	assert.Equal(t, AchievementCompletion, names["Quiz Champion"].Type)
	assert.Equal(t, 10, names["Quiz Champion"].Requirement)
	assert.Equal(t, 100, names["Perfect Score"].Requirement)
}
