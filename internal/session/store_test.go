package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(userID string) *models.QuizSession {
	return &models.QuizSession{
		UserID: userID,
		Topic:  "Python",
		Questions: []models.Question{
			{
				Ref:        models.QuestionRef{Source: models.SourceCurated, ID: 1},
				Topic:      "Python",
				Difficulty: models.DifficultyEasy,
				Text:       "q",
				Options:    models.Options{A: "a", B: "b", C: "c", D: "d"},
				Correct:    models.OptionA,
			},
		},
		StartedAt: time.Now(),
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "u1", newSession("u1")))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Python", got.Topic)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "u1", newSession("u1")))

	first, err := store.Get(ctx, "u1")
	require.NoError(t, err)

	// Mutating the returned session must not leak into the store.
	first.CurrentIndex = 99
	first.Questions[0].Text = "tampered"

	second, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, second.CurrentIndex)
	assert.Equal(t, "q", second.Questions[0].Text)
}

func TestMemoryStore_UpdatePersistsMutation(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "u1", newSession("u1")))

	err := store.Update(ctx, "u1", func(s *models.QuizSession) (bool, error) {
		s.CurrentIndex = 1
		return false, nil
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentIndex)
}

func TestMemoryStore_UpdateDoneDeletes(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "u1", newSession("u1")))

	err := store.Update(ctx, "u1", func(s *models.QuizSession) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)

	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestMemoryStore_UpdateErrorDiscardsMutation(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "u1", newSession("u1")))

	boom := errors.New("boom")
	err := store.Update(ctx, "u1", func(s *models.QuizSession) (bool, error) {
		s.CurrentIndex = 5
		return false, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentIndex)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(ctx, "u1", newSession("u1")))

	current = current.Add(2 * time.Minute)
	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStripedMutex_StableAndBounded(t *testing.T) {
	locks := newStripedMutex()

	// The same key always lands on the same stripe.
	assert.Same(t, locks.get("u1"), locks.get("u1"))

	// Any number of distinct keys resolves into the fixed stripe set.
	seen := make(map[*sync.Mutex]bool)
	for i := 0; i < 10_000; i++ {
		seen[locks.get(fmt.Sprintf("user-%d", i))] = true
	}
	assert.LessOrEqual(t, len(seen), lockStripes)
}

func TestMemoryStore_ConcurrentUpdatesSerialized(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "u1", newSession("u1")))

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, "u1", func(s *models.QuizSession) (bool, error) {
				s.CorrectCount++
				return false, nil
			})
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, workers, got.CorrectCount)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(ctx, "old1", newSession("old1")))
	require.NoError(t, store.Save(ctx, "old2", newSession("old2")))

	current = current.Add(90 * time.Second)
	require.NoError(t, store.Save(ctx, "fresh", newSession("fresh")))

	assert.Equal(t, 2, store.Sweep())

	_, err := store.Get(ctx, "fresh")
	assert.NoError(t, err)
}
