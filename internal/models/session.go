package models

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrNoCurrentQuestion is returned when an answer is submitted after
	// the cursor already passed the last question.
	ErrNoCurrentQuestion = errors.New("quiz session has no current question")
)

// DefaultConfidence is recorded when the caller does not report one.
const DefaultConfidence = 3

// AnswerRecord captures one submitted answer. Records are append-only
// and owned by the session until finalization.
type AnswerRecord struct {
	Question         QuestionRef     `json:"question"`
	Submitted        OptionLetter    `json:"submitted"`
	Correct          OptionLetter    `json:"correct"`
	IsCorrect        bool            `json:"is_correct"`
	Confidence       int             `json:"confidence"` // 1-5
	TimeTakenSeconds int             `json:"time_taken_seconds"`
	Difficulty       DifficultyLevel `json:"difficulty"`
}

// QuizSession is the transient per-user quiz state held in the session
// store. The question set is fixed at start; only Answer mutates the
// session, and only through the store's per-key serialization.
type QuizSession struct {
	UserID       string     `json:"user_id"`
	Topic        string     `json:"topic"`
	Subtopic     string     `json:"subtopic"`   // AllSubtopics when the filter was empty
	Difficulty   string     `json:"difficulty"` // AllDifficulties when the filter was empty
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"current_index"`
	CorrectCount int        `json:"correct_count"`
	Answers      []AnswerRecord `json:"answers"`
	StartedAt    time.Time  `json:"started_at"`
}

func (s *QuizSession) Total() int {
	return len(s.Questions)
}

// Completed reports whether the cursor has passed the last question.
func (s *QuizSession) Completed() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// CurrentQuestion returns the question at the cursor, or false when the
// session is complete.
func (s *QuizSession) CurrentQuestion() (Question, bool) {
	if s.Completed() {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Answer records the submitted option against the current question,
// updates the correct counter and advances the cursor by one. Submitting
// once the session is complete is rejected without mutating any state.
func (s *QuizSession) Answer(submitted OptionLetter, confidence, timeTakenSeconds int) (AnswerRecord, error) {
	question, ok := s.CurrentQuestion()
	if !ok {
		return AnswerRecord{}, ErrNoCurrentQuestion
	}

	if confidence < 1 || confidence > 5 {
		confidence = DefaultConfidence
	}
	if timeTakenSeconds < 0 {
		timeTakenSeconds = 0
	}

	record := AnswerRecord{
		Question:         question.Ref,
		Submitted:        submitted,
		Correct:          question.Correct,
		IsCorrect:        submitted == question.Correct,
		Confidence:       confidence,
		TimeTakenSeconds: timeTakenSeconds,
		Difficulty:       question.Difficulty,
	}

	s.Answers = append(s.Answers, record)
	if record.IsCorrect {
		s.CorrectCount++
	}
	s.CurrentIndex++

	return record, nil
}

// Percentage returns the score of the session so far as 0-100.
func (s *QuizSession) Percentage() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return 100 * float64(s.CorrectCount) / float64(len(s.Questions))
}

// TimeTakenMinutes sums per-answer elapsed seconds, converted to minutes
// and rounded to two decimals.
func (s *QuizSession) TimeTakenMinutes() float64 {
	total := 0
	for _, a := range s.Answers {
		total += a.TimeTakenSeconds
	}
	return math.Round(float64(total)/60*100) / 100
}

// WrongAnswers returns the records of incorrectly answered questions.
func (s *QuizSession) WrongAnswers() []AnswerRecord {
	var wrong []AnswerRecord
	for _, a := range s.Answers {
		if !a.IsCorrect {
			wrong = append(wrong, a)
		}
	}
	return wrong
}

// QuestionByRef finds a drawn question by its reference, for review
// display after finalization.
func (s *QuizSession) QuestionByRef(ref QuestionRef) (Question, bool) {
	for _, q := range s.Questions {
		if q.Ref == ref {
			return q, true
		}
	}
	return Question{}, false
}
