package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizforge/quiz-service/internal/cache"
	"github.com/quizforge/quiz-service/internal/events"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/session"
	"github.com/quizforge/quiz-service/internal/utils"
	"github.com/quizforge/quiz-service/internal/validator"
)

// DefaultQuestionCount is drawn when neither the caller nor the user's
// stored preferences ask for a size. MaxQuestionCount mirrors the upper
// bound of the question_count request validator.
const (
	DefaultQuestionCount = 5
	MaxQuestionCount     = 50
)

// ===== REQUEST / RESPONSE TYPES =====

type StartQuizRequest struct {
	UserID     string `json:"-"`
	Topic      string `json:"topic" validate:"required,max=100"`
	Subtopic   string `json:"subtopic" validate:"max=100"`
	Difficulty string `json:"difficulty" validate:"omitempty,difficulty_level"`
	Count      int    `json:"count" validate:"omitempty,question_count"`

	// Proceed skips the progression advisory and starts as requested.
	Proceed bool `json:"proceed"`
}

type SubmitAnswerRequest struct {
	UserID           string `json:"-"`
	Answer           string `json:"answer" validate:"required,option_letter"`
	Confidence       int    `json:"confidence" validate:"omitempty,confidence"`
	TimeTakenSeconds int    `json:"time_taken_seconds" validate:"omitempty,min=0"`
}

// QuestionView is a question as shown to the taker, without the answer.
type QuestionView struct {
	Ref      models.QuestionRef `json:"ref"`
	Number   int                `json:"number"`
	Total    int                `json:"total"`
	Text     string             `json:"text"`
	Options  models.Options     `json:"options"`
	Topic    string             `json:"topic"`
	Subtopic string             `json:"subtopic"`
}

// StartQuizResult either carries the first question of a new session or,
// when the analyzer intercepted the request, only the recommendation.
type StartQuizResult struct {
	Started        bool            `json:"started"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Question       *QuestionView   `json:"question,omitempty"`
	TotalQuestions int             `json:"total_questions,omitempty"`
}

// WrongAnswerReview shows one missed question with full option text.
type WrongAnswerReview struct {
	Question       string             `json:"question"`
	Ref            models.QuestionRef `json:"ref"`
	YourAnswer     string             `json:"your_answer"`
	YourAnswerText string             `json:"your_answer_text"`
	CorrectAnswer  string             `json:"correct_answer"`
	CorrectText    string             `json:"correct_answer_text"`
}

// QuizResult is the finalization payload.
type QuizResult struct {
	AttemptID        uint                `json:"attempt_id"`
	Topic            string              `json:"topic"`
	Subtopic         string              `json:"subtopic"`
	Difficulty       string              `json:"difficulty"`
	Score            float64             `json:"score"`
	CorrectAnswers   int                 `json:"correct_answers"`
	TotalQuestions   int                 `json:"total_questions"`
	TimeTakenMinutes float64             `json:"time_taken_minutes"`
	WrongAnswers     []WrongAnswerReview `json:"wrong_answers"`
	Gamification     *GamificationResult `json:"gamification,omitempty"`
}

// AnswerResult reports the outcome of one submission. Completed and
// Result are set only when this answer finalized the session.
type AnswerResult struct {
	IsCorrect     bool          `json:"is_correct"`
	CorrectAnswer string        `json:"correct_answer"`
	CorrectText   string        `json:"correct_answer_text"`
	Completed     bool          `json:"completed"`
	NextQuestion  *QuestionView `json:"next_question,omitempty"`
	Result        *QuizResult   `json:"result,omitempty"`
}

// ===== SERVICE =====

// QuizService drives the per-user quiz session lifecycle.
type QuizService interface {
	Start(ctx context.Context, req StartQuizRequest) (*StartQuizResult, error)
	SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*AnswerResult, error)
	Current(ctx context.Context, userID string) (*QuestionView, error)
	Abandon(ctx context.Context, userID string) error
}

type quizService struct {
	repo         repositories.Repository
	store        session.Store
	questions    QuestionService
	progression  ProgressionService
	gamification GamificationService
	users        UserService
	cache        cache.CacheService
	publisher    events.EventPublisher
	validator    *validator.Validator
	logger       utils.Logger
	now          func() time.Time
}

type QuizServiceDeps struct {
	Repo         repositories.Repository
	Store        session.Store
	Questions    QuestionService
	Progression  ProgressionService
	Gamification GamificationService
	Users        UserService
	Cache        cache.CacheService
	Publisher    events.EventPublisher
	Validator    *validator.Validator
	Logger       utils.Logger
}

func NewQuizService(deps QuizServiceDeps) QuizService {
	return &quizService{
		repo:         deps.Repo,
		store:        deps.Store,
		questions:    deps.Questions,
		progression:  deps.Progression,
		gamification: deps.Gamification,
		users:        deps.Users,
		cache:        deps.Cache,
		publisher:    deps.Publisher,
		validator:    deps.Validator,
		logger:       deps.Logger,
		now:          time.Now,
	}
}

func (s *quizService) Start(ctx context.Context, req StartQuizRequest) (*StartQuizResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	// The advisory runs only for an explicit difficulty request; a mixed
	// quiz has no level to be ready for.
	if req.Difficulty != "" && !req.Proceed {
		rec, err := s.progression.Recommend(ctx, req.UserID, req.Topic, models.DifficultyLevel(req.Difficulty))
		if err != nil {
			return nil, err
		}
		if rec.Action != ActionProceed {
			return &StartQuizResult{Started: false, Recommendation: rec}, nil
		}
	}

	if req.Count == 0 {
		req.Count = s.defaultCount(ctx, req.UserID)
	}

	questions, err := s.questions.Sample(ctx, repositories.QuestionFilters{
		Topic:      req.Topic,
		Subtopic:   req.Subtopic,
		Difficulty: models.DifficultyLevel(req.Difficulty),
	}, req.Count)
	if err != nil {
		return nil, err
	}

	quizSession := &models.QuizSession{
		UserID:     req.UserID,
		Topic:      req.Topic,
		Subtopic:   labelOrAll(req.Subtopic, models.AllSubtopics),
		Difficulty: labelOrAll(req.Difficulty, models.AllDifficulties),
		Questions:  questions,
		StartedAt:  s.now(),
	}

	if err := s.store.Save(ctx, req.UserID, quizSession); err != nil {
		return nil, fmt.Errorf("failed to store quiz session: %w", err)
	}

	s.publishEvent(ctx, events.NewQuizStartedEvent(
		req.UserID, quizSession.Topic, quizSession.Subtopic, quizSession.Difficulty, len(questions)))

	first, _ := quizSession.CurrentQuestion()
	return &StartQuizResult{
		Started:        true,
		Question:       questionView(first, quizSession),
		TotalQuestions: quizSession.Total(),
	}, nil
}

// defaultCount resolves the quiz size for a request that did not ask
// for one: the user's stored preference when available, the service
// default otherwise. Preference lookup failure is not worth failing the
// start over.
func (s *quizService) defaultCount(ctx context.Context, userID string) int {
	if s.users == nil {
		return DefaultQuestionCount
	}
	prefs, err := s.users.Preferences(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load quiz preferences", "user_id", userID, "error", err)
		return DefaultQuestionCount
	}
	if prefs.DefaultQuestions <= 0 {
		return DefaultQuestionCount
	}
	if prefs.DefaultQuestions > MaxQuestionCount {
		return MaxQuestionCount
	}
	return prefs.DefaultQuestions
}

func (s *quizService) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*AnswerResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var result AnswerResult
	err := s.store.Update(ctx, req.UserID, func(sess *models.QuizSession) (bool, error) {
		record, err := sess.Answer(models.OptionLetter(req.Answer), req.Confidence, req.TimeTakenSeconds)
		if err != nil {
			if errors.Is(err, models.ErrNoCurrentQuestion) {
				return false, ErrNoCurrentQuestion
			}
			return false, err
		}

		question, ok := sess.QuestionByRef(record.Question)
		if !ok {
			return false, fmt.Errorf("answered question %s missing from session", record.Question)
		}

		result = AnswerResult{
			IsCorrect:     record.IsCorrect,
			CorrectAnswer: string(record.Correct),
			CorrectText:   question.Options.Get(record.Correct),
		}

		if !sess.Completed() {
			next, _ := sess.CurrentQuestion()
			result.NextQuestion = questionView(next, sess)
			return false, nil
		}

		// Finalize inside the per-key lock. Returning done=true removes
		// the session, so a concurrent or repeated submit sees no active
		// session instead of a second finalization.
		quizResult, err := s.finalize(ctx, sess)
		if err != nil {
			return false, err
		}
		result.Completed = true
		result.Result = quizResult
		return true, nil
	})
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	return &result, nil
}

// finalize persists the attempt, applies gamification, invalidates the
// user's cached views and publishes the completion event.
func (s *quizService) finalize(ctx context.Context, sess *models.QuizSession) (*QuizResult, error) {
	now := s.now()
	attempt := &models.QuizAttempt{
		UserID:         sess.UserID,
		Score:          sess.Percentage(),
		Topic:          sess.Topic,
		Subtopic:       sess.Subtopic,
		Difficulty:     sess.Difficulty,
		CorrectAnswers: sess.CorrectCount,
		WrongAnswers:   sess.Total() - sess.CorrectCount,
		TotalQuestions: sess.Total(),
		TimeTaken:      sess.TimeTakenMinutes(),
		AttemptDate:    now,
	}

	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to persist quiz attempt: %w", err)
	}

	gamification, err := s.gamification.RecordCompletion(ctx, attempt)
	if err != nil {
		// The attempt is already durable; losing gamification for it is
		// preferable to blocking the result.
		s.logger.Error("gamification failed for attempt",
			"user_id", sess.UserID, "attempt_id", attempt.ID, "error", err)
		gamification = nil
	}

	if err := s.cache.Delete(ctx, cache.UserKeys(sess.UserID)...); err != nil {
		s.logger.Warn("failed to invalidate user caches",
			"user_id", sess.UserID, "error", err)
	}

	xpEarned := 0
	if gamification != nil {
		xpEarned = gamification.XPEarned
	}
	s.publishEvent(ctx, events.NewQuizCompletedEvent(attempt, xpEarned))

	return &QuizResult{
		AttemptID:        attempt.ID,
		Topic:            attempt.Topic,
		Subtopic:         attempt.Subtopic,
		Difficulty:       attempt.Difficulty,
		Score:            attempt.Score,
		CorrectAnswers:   attempt.CorrectAnswers,
		TotalQuestions:   attempt.TotalQuestions,
		TimeTakenMinutes: attempt.TimeTaken,
		WrongAnswers:     wrongAnswerReviews(sess),
		Gamification:     gamification,
	}, nil
}

func (s *quizService) Current(ctx context.Context, userID string) (*QuestionView, error) {
	sess, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	question, ok := sess.CurrentQuestion()
	if !ok {
		return nil, ErrSessionCompleted
	}
	return questionView(question, sess), nil
}

func (s *quizService) Abandon(ctx context.Context, userID string) error {
	sess, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return ErrNoActiveSession
		}
		return err
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete quiz session: %w", err)
	}

	s.publishEvent(ctx, events.NewQuizAbandonedEvent(
		userID, sess.Topic, len(sess.Answers), sess.Total()))
	return nil
}

func (s *quizService) publishEvent(ctx context.Context, event *events.QuizEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.Type, "error", err)
	}
}

// wrongAnswerReviews maps the session's missed answers to review
// entries with the full question and option text.
func wrongAnswerReviews(sess *models.QuizSession) []WrongAnswerReview {
	var reviews []WrongAnswerReview
	for _, a := range sess.WrongAnswers() {
		review := WrongAnswerReview{
			Ref:           a.Question,
			YourAnswer:    string(a.Submitted),
			CorrectAnswer: string(a.Correct),
		}
		if q, ok := sess.QuestionByRef(a.Question); ok {
			review.Question = q.Text
			review.YourAnswerText = q.Options.Get(a.Submitted)
			review.CorrectText = q.Options.Get(a.Correct)
		}
		reviews = append(reviews, review)
	}
	return reviews
}

func questionView(q models.Question, sess *models.QuizSession) *QuestionView {
	return &QuestionView{
		Ref:      q.Ref,
		Number:   sess.CurrentIndex + 1,
		Total:    sess.Total(),
		Text:     q.Text,
		Options:  q.Options,
		Topic:    q.Topic,
		Subtopic: q.Subtopic,
	}
}

func labelOrAll(value, allLabel string) string {
	if value == "" {
		return allLabel
	}
	return value
}
