package models

import "time"

// XPPerLevel is the XP span of one level; level is always derived from
// total XP, never set independently.
const XPPerLevel = 100

// UserXP is the per-user gamification ledger row. Mutated only through
// AddXP and UpdateStreak, which the gamification service calls once each
// per finalized session inside a transaction.
type UserXP struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        string     `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	TotalXP       int        `json:"total_xp" gorm:"default:0"`
	Level         int        `json:"level" gorm:"default:1"`
	CurrentStreak int        `json:"current_streak" gorm:"default:0"`
	LongestStreak int        `json:"longest_streak" gorm:"default:0"`
	LastQuizDate  *time.Time `json:"last_quiz_date" gorm:"type:date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserXP) TableName() string {
	return "user_xp"
}

// AddXP increments total XP and recomputes the derived level.
func (x *UserXP) AddXP(points int) {
	x.TotalXP += points
	x.Level = x.TotalXP/XPPerLevel + 1
}

// XPToNextLevel returns how much XP is missing until the next level.
func (x *UserXP) XPToNextLevel() int {
	return x.Level*XPPerLevel - x.TotalXP
}

// UpdateStreak advances the daily quiz streak, keyed on the calendar day
// of now: same day is a no-op, the day after the last quiz extends the
// streak, any larger gap (or a first-ever quiz) resets it to 1.
// Invariant: LongestStreak >= CurrentStreak after every call.
func (x *UserXP) UpdateStreak(now time.Time) {
	today := dateOnly(now)

	if x.LastQuizDate == nil {
		x.CurrentStreak = 1
	} else {
		last := dateOnly(*x.LastQuizDate)
		switch {
		case last.Equal(today):
			return
		case last.Equal(today.AddDate(0, 0, -1)):
			x.CurrentStreak++
		default:
			x.CurrentStreak = 1
		}
	}

	if x.CurrentStreak > x.LongestStreak {
		x.LongestStreak = x.CurrentStreak
	}
	x.LastQuizDate = &today
}

// dateOnly maps a timestamp to its calendar date as a UTC midnight.
// The stored date column round-trips as UTC midnight, so comparing
// against a clock in another zone must go through calendar components,
// never through instant truncation.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type AchievementType string

const (
	AchievementStreak      AchievementType = "streak"
	AchievementAccuracy    AchievementType = "accuracy"
	AchievementCompletion  AchievementType = "completion"
	AchievementTopicMaster AchievementType = "topic_master"
)

// Achievement is a catalog entry for a one-time-per-user unlockable badge.
type Achievement struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Description string          `json:"description" gorm:"type:text"`
	Icon        string          `json:"icon" gorm:"size:10"`
	Type        AchievementType `json:"type" gorm:"column:achievement_type;not null;size:20"`
	Requirement int             `json:"requirement" gorm:"default:1"`
	XPReward    int             `json:"xp_reward" gorm:"default:50"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records an earned badge. The (user, achievement) pair
// is unique so re-evaluation can never award twice.
type UserAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_achievement"`
	AchievementID uint      `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	EarnedAt      time.Time `json:"earned_at" gorm:"autoCreateTime"`

	Achievement Achievement `json:"achievement" gorm:"foreignKey:AchievementID"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

// DefaultAchievements is the built-in catalog, seeded lazily on first
// evaluation. The accuracy predicate intentionally uses the lifetime
// average score, matching the deployed rule set.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{Icon: "🔥", Name: "Streak Master", Description: "Complete quizzes for 7 days straight", Type: AchievementStreak, Requirement: 7, XPReward: 50},
		{Icon: "🎯", Name: "Sharp Shooter", Description: "Achieve 90%+ average score", Type: AchievementAccuracy, Requirement: 90, XPReward: 50},
		{Icon: "🏆", Name: "Quiz Champion", Description: "Complete 10 quizzes", Type: AchievementCompletion, Requirement: 10, XPReward: 50},
		{Icon: "💯", Name: "Perfect Score", Description: "Get 100% on any quiz", Type: AchievementAccuracy, Requirement: 100, XPReward: 50},
	}
}
