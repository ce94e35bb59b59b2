package models

import (
	"fmt"
	"time"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type OptionLetter string

const (
	OptionA OptionLetter = "A"
	OptionB OptionLetter = "B"
	OptionC OptionLetter = "C"
	OptionD OptionLetter = "D"
)

func (o OptionLetter) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// QuestionSource identifies which of the two question banks a question
// belongs to: the curated bank (admin uploads) or the generated bank
// (AI bulk imports).
type QuestionSource string

const (
	SourceCurated   QuestionSource = "curated"
	SourceGenerated QuestionSource = "generated"
)

// QuestionRef is a stable reference to a question across both banks.
type QuestionRef struct {
	Source QuestionSource `json:"source"`
	ID     uint           `json:"id"`
}

func (r QuestionRef) String() string {
	return fmt.Sprintf("%s_%d", r.Source, r.ID)
}

// Options holds the four answer options of a multiple choice question.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

func (o Options) Get(letter OptionLetter) string {
	switch letter {
	case OptionA:
		return o.A
	case OptionB:
		return o.B
	case OptionC:
		return o.C
	case OptionD:
		return o.D
	}
	return ""
}

// Question is the unified read view over both question banks. It is
// immutable once created; sessions hold snapshots of it.
type Question struct {
	Ref        QuestionRef     `json:"ref"`
	Topic      string          `json:"topic"`
	Subtopic   string          `json:"subtopic"`
	Difficulty DifficultyLevel `json:"difficulty"`
	Number     int             `json:"number"`
	Text       string          `json:"text"`
	Options    Options         `json:"options"`
	Correct    OptionLetter    `json:"correct"`
}

// CuratedQuestion is a row in the manually curated bank, populated from
// admin PDF uploads.
type CuratedQuestion struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Topic      string          `json:"topic" gorm:"not null;size:50;index" validate:"required,max=50"`
	Subtopic   string          `json:"subtopic" gorm:"not null;size:100;index" validate:"required,max=100"`
	Difficulty DifficultyLevel `json:"difficulty" gorm:"not null;size:10;index" validate:"required,difficulty_level"`
	Number     int             `json:"number" gorm:"column:question_no;not null"`
	Text       string          `json:"text" gorm:"column:question;type:text;not null" validate:"required"`
	OptionA    string          `json:"option_a" gorm:"size:255;not null" validate:"required,max=255"`
	OptionB    string          `json:"option_b" gorm:"size:255;not null" validate:"required,max=255"`
	OptionC    string          `json:"option_c" gorm:"size:255;not null" validate:"required,max=255"`
	OptionD    string          `json:"option_d" gorm:"size:255;not null" validate:"required,max=255"`
	Correct    OptionLetter    `json:"correct_answer" gorm:"column:correct_answer;size:1;not null" validate:"required,option_letter"`
	Approved   bool            `json:"approved" gorm:"default:false;index"`
	UploadedAt time.Time       `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (CuratedQuestion) TableName() string {
	return "curated_questions"
}

func (q CuratedQuestion) Domain() Question {
	return Question{
		Ref:        QuestionRef{Source: SourceCurated, ID: q.ID},
		Topic:      q.Topic,
		Subtopic:   q.Subtopic,
		Difficulty: q.Difficulty,
		Number:     q.Number,
		Text:       q.Text,
		Options:    Options{A: q.OptionA, B: q.OptionB, C: q.OptionC, D: q.OptionD},
		Correct:    q.Correct,
	}
}

// GeneratedQuestion is a row in the AI/bulk-imported bank. Structurally
// identical to CuratedQuestion apart from provenance metadata.
type GeneratedQuestion struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Topic      string          `json:"topic" gorm:"not null;size:50;index" validate:"required,max=50"`
	Subtopic   string          `json:"subtopic" gorm:"not null;size:100;index" validate:"required,max=100"`
	Difficulty DifficultyLevel `json:"difficulty" gorm:"not null;size:10;index" validate:"required,difficulty_level"`
	Number     int             `json:"number" gorm:"column:question_no;not null"`
	Text       string          `json:"text" gorm:"column:question;type:text;not null" validate:"required"`
	OptionA    string          `json:"option_a" gorm:"size:255;not null" validate:"required,max=255"`
	OptionB    string          `json:"option_b" gorm:"size:255;not null" validate:"required,max=255"`
	OptionC    string          `json:"option_c" gorm:"size:255;not null" validate:"required,max=255"`
	OptionD    string          `json:"option_d" gorm:"size:255;not null" validate:"required,max=255"`
	Correct    OptionLetter    `json:"correct_answer" gorm:"column:correct_answer;size:1;not null" validate:"required,option_letter"`
	CreatedBy  string          `json:"created_by" gorm:"size:255;index"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (GeneratedQuestion) TableName() string {
	return "generated_questions"
}

func (q GeneratedQuestion) Domain() Question {
	return Question{
		Ref:        QuestionRef{Source: SourceGenerated, ID: q.ID},
		Topic:      q.Topic,
		Subtopic:   q.Subtopic,
		Difficulty: q.Difficulty,
		Number:     q.Number,
		Text:       q.Text,
		Options:    Options{A: q.OptionA, B: q.OptionB, C: q.OptionC, D: q.OptionD},
		Correct:    q.Correct,
	}
}
