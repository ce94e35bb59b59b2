package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWith(n int) *QuizSession {
	questions := make([]Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, Question{
			Ref:        QuestionRef{Source: SourceCurated, ID: uint(i)},
			Topic:      "Python",
			Difficulty: DifficultyEasy,
			Text:       "q",
			Options:    Options{A: "a", B: "b", C: "c", D: "d"},
			Correct:    OptionA,
		})
	}
	return &QuizSession{
		UserID:    "u1",
		Topic:     "Python",
		Questions: questions,
		StartedAt: time.Now(),
	}
}

func TestSessionAnswer_AdvancesAndScores(t *testing.T) {
	s := sessionWith(2)

	record, err := s.Answer(OptionA, 4, 30)
	require.NoError(t, err)
	assert.True(t, record.IsCorrect)
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Equal(t, 1, s.CorrectCount)
	assert.False(t, s.Completed())

	record, err = s.Answer(OptionB, 2, 60)
	require.NoError(t, err)
	assert.False(t, record.IsCorrect)
	assert.Equal(t, OptionA, record.Correct)
	assert.True(t, s.Completed())

	assert.Equal(t, 50.0, s.Percentage())
	assert.Equal(t, 1.5, s.TimeTakenMinutes())
}

func TestSessionAnswer_DefaultsConfidence(t *testing.T) {
	s := sessionWith(3)

	record, err := s.Answer(OptionA, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfidence, record.Confidence)

	record, err = s.Answer(OptionA, 9, -5)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfidence, record.Confidence)
	assert.Equal(t, 0, record.TimeTakenSeconds)
}

func TestSessionAnswer_RejectedAfterCompletion(t *testing.T) {
	s := sessionWith(1)

	_, err := s.Answer(OptionA, 3, 10)
	require.NoError(t, err)
	require.True(t, s.Completed())

	_, err = s.Answer(OptionB, 3, 10)
	assert.ErrorIs(t, err, ErrNoCurrentQuestion)

	// Rejection leaves the session untouched.
	assert.Len(t, s.Answers, 1)
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, 1, s.CurrentIndex)
}

func TestSessionPercentage_EmptySession(t *testing.T) {
	s := &QuizSession{}
	assert.Equal(t, 0.0, s.Percentage())
}

func TestSessionTimeTakenMinutes_Rounding(t *testing.T) {
	s := sessionWith(3)
	s.Answer(OptionA, 3, 10)
	s.Answer(OptionA, 3, 10)
	s.Answer(OptionA, 3, 10)

	// 30 seconds is 0.5 minutes exactly.
	assert.Equal(t, 0.5, s.TimeTakenMinutes())

	s = sessionWith(1)
	s.Answer(OptionA, 3, 100)
	// 100/60 rounds to 1.67.
	assert.Equal(t, 1.67, s.TimeTakenMinutes())
}

func TestSessionWrongAnswers(t *testing.T) {
	s := sessionWith(3)
	s.Answer(OptionA, 3, 5)
	s.Answer(OptionC, 3, 5)
	s.Answer(OptionD, 3, 5)

	wrong := s.WrongAnswers()
	require.Len(t, wrong, 2)
	assert.Equal(t, OptionC, wrong[0].Submitted)
	assert.Equal(t, OptionD, wrong[1].Submitted)
}

func TestSessionQuestionByRef(t *testing.T) {
	s := sessionWith(2)

	q, ok := s.QuestionByRef(QuestionRef{Source: SourceCurated, ID: 2})
	require.True(t, ok)
	assert.Equal(t, uint(2), q.Ref.ID)

	_, ok = s.QuestionByRef(QuestionRef{Source: SourceGenerated, ID: 2})
	assert.False(t, ok)
}
