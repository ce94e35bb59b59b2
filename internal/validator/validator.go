package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/quizforge/quiz-service/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/quizforge/quiz-service/internal/models"
)

// Validator wraps the struct-tag validator with the service's custom
// rules registered once.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{structValidator: structValidator}
}

// Validate validates struct tags and converts failures into the shared
// ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("option_letter", validateOptionLetter)
	validate.RegisterValidation("topic_request_status", validateTopicRequestStatus)
	validate.RegisterValidation("question_count", validateQuestionCount)
	validate.RegisterValidation("confidence", validateConfidence)

	// Report json field names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	return models.DifficultyLevel(fl.Field().String()).Valid()
}

func validateOptionLetter(fl validator.FieldLevel) bool {
	return models.OptionLetter(fl.Field().String()).Valid()
}

func validateTopicRequestStatus(fl validator.FieldLevel) bool {
	return models.TopicRequestStatus(fl.Field().String()).Valid()
}

func validateQuestionCount(fl validator.FieldLevel) bool {
	count := fl.Field().Int()
	return count >= 1 && count <= 50
}

func validateConfidence(fl validator.FieldLevel) bool {
	confidence := fl.Field().Int()
	return confidence >= 1 && confidence <= 5
}
