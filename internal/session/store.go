package session

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrNoActiveSession is returned when the user has no stored quiz
// session (never started, already finalized, or expired).
var ErrNoActiveSession = errors.New("no active quiz session")

// Store keeps at most one transient QuizSession per user. All mutation
// goes through Update, which serializes read-modify-write per key so a
// logical answer advances the cursor exactly once.
type Store interface {
	Get(ctx context.Context, userID string) (*models.QuizSession, error)
	Save(ctx context.Context, userID string, session *models.QuizSession) error
	Delete(ctx context.Context, userID string) error

	// Update loads the session, runs fn under the per-user lock and
	// persists the result. fn returning done=true removes the session
	// instead, which is how finalization retires it exactly once.
	Update(ctx context.Context, userID string, fn func(*models.QuizSession) (done bool, err error)) error
}

// lockStripes bounds the lock table regardless of how many distinct
// users the process ever sees. Collisions only cost contention, never
// correctness.
const lockStripes = 64

// stripedMutex serializes access per key by hashing onto a fixed set
// of mutexes.
type stripedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func newStripedMutex() *stripedMutex {
	return &stripedMutex{}
}

func (s *stripedMutex) get(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.stripes[h.Sum32()%lockStripes]
}

// ===== REDIS STORE =====

// RedisStore persists sessions as JSON values with a TTL, so abandoned
// sessions expire without a sweeper.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *stripedMutex
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		locks:  newStripedMutex(),
	}
}

func sessionKey(userID string) string {
	return "quizsession:" + userID
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.QuizSession, error) {
	payload, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}

	var session models.QuizSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, session *models.QuizSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(userID), payload, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}

func (s *RedisStore) Update(ctx context.Context, userID string, fn func(*models.QuizSession) (bool, error)) error {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	done, err := fn(session)
	if err != nil {
		return err
	}
	if done {
		return s.Delete(ctx, userID)
	}
	return s.Save(ctx, userID, session)
}

// ===== MEMORY STORE =====

type memoryEntry struct {
	session   *models.QuizSession
	expiresAt time.Time
}

// MemoryStore is the in-process fallback used in tests and single-node
// development. Expired entries are dropped lazily on access and by the
// scheduled Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	locks    *stripedMutex
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		locks:    newStripedMutex(),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*models.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, userID)
		return nil, ErrNoActiveSession
	}

	// Hand out a copy so callers cannot bypass Update's locking.
	clone := *entry.session
	clone.Questions = append([]models.Question(nil), entry.session.Questions...)
	clone.Answers = append([]models.AnswerRecord(nil), entry.session.Answers...)
	return &clone, nil
}

func (s *MemoryStore) Save(ctx context.Context, userID string, session *models.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = memoryEntry{
		session:   session,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, userID string, fn func(*models.QuizSession) (bool, error)) error {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	done, err := fn(session)
	if err != nil {
		return err
	}
	if done {
		return s.Delete(ctx, userID)
	}
	return s.Save(ctx, userID, session)
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for userID, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}
