package services

import (
	"context"
	"fmt"

	"github.com/quizforge/quiz-service/internal/extract"
	"github.com/quizforge/quiz-service/internal/genai"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
	"github.com/quizforge/quiz-service/internal/validator"
)

type GenerateQuestionsRequest struct {
	UserID     string `json:"-"`
	Topic      string `json:"topic" validate:"required,max=100"`
	Subtopic   string `json:"subtopic" validate:"max=100"`
	Difficulty string `json:"difficulty" validate:"omitempty,difficulty_level"`
	Count      int    `json:"count" validate:"omitempty,question_count"`
}

// GenerateQuestionsResult reports what landed in the generated bank.
// Fallback is set when the generative client failed and the built-in
// sample set was stored instead.
type GenerateQuestionsResult struct {
	Created        int    `json:"created"`
	Fallback       bool   `json:"fallback"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// GenerationService produces new questions for the generated bank via
// the generative client.
type GenerationService interface {
	Generate(ctx context.Context, req GenerateQuestionsRequest) (*GenerateQuestionsResult, error)
}

type generationService struct {
	repo      repositories.Repository
	client    genai.Client
	validator *validator.Validator
	logger    utils.Logger
}

func NewGenerationService(repo repositories.Repository, client genai.Client, v *validator.Validator, logger utils.Logger) GenerationService {
	return &generationService{
		repo:      repo,
		client:    client,
		validator: v,
		logger:    logger,
	}
}

func (s *generationService) Generate(ctx context.Context, req GenerateQuestionsRequest) (*GenerateQuestionsResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Count == 0 {
		req.Count = 10
	}
	if req.Subtopic == "" {
		req.Subtopic = "General"
	}
	difficulty := models.DifficultyLevel(req.Difficulty)
	if !difficulty.Valid() {
		difficulty = models.DifficultyMedium
	}

	result := &GenerateQuestionsResult{}
	parsed, genErr := s.generateParsed(ctx, req)
	if genErr != nil {
		s.logger.Warn("question generation failed, storing sample set",
			"topic", req.Topic, "error", genErr)
		parsed = extract.SampleMCQs()
		result.Fallback = true
		result.FallbackReason = genErr.Error()
	}
	if len(parsed) == 0 {
		return result, nil
	}

	questions := make([]*models.GeneratedQuestion, 0, len(parsed))
	for i, mcq := range parsed {
		questions = append(questions, &models.GeneratedQuestion{
			Topic:      req.Topic,
			Subtopic:   req.Subtopic,
			Difficulty: difficulty,
			Number:     i + 1,
			Text:       mcq.Text,
			OptionA:    mcq.OptionA,
			OptionB:    mcq.OptionB,
			OptionC:    mcq.OptionC,
			OptionD:    mcq.OptionD,
			Correct:    mcq.Correct,
			CreatedBy:  req.UserID,
		})
	}

	if err := s.repo.Question().CreateGenerated(ctx, questions); err != nil {
		return nil, fmt.Errorf("failed to save generated questions: %w", err)
	}

	result.Created = len(questions)
	s.logger.Info("generated questions stored",
		"topic", req.Topic, "count", result.Created, "fallback", result.Fallback)
	return result, nil
}

func (s *generationService) generateParsed(ctx context.Context, req GenerateQuestionsRequest) ([]extract.ParsedMCQ, error) {
	if s.client == nil {
		return nil, genai.ErrNotConfigured
	}

	prompt := fmt.Sprintf(
		"Generate %d multiple choice questions about %s focusing on %s.\n\n"+
			"Format each question as:\n"+
			"Q: [question]\n"+
			"A) [option]\n"+
			"B) [option]\n"+
			"C) [option]\n"+
			"D) [option]\n"+
			"Answer: [A/B/C/D]\n\n"+
			"Make questions practical and test real understanding.",
		req.Count, req.Topic, req.Subtopic)

	text, err := s.client.Complete(ctx,
		"You write multiple choice quiz questions. Follow the requested format exactly.",
		prompt)
	if err != nil {
		return nil, err
	}

	parsed := extract.GeneratedQuestions(text, req.Count)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("generated text contained no parseable questions")
	}
	return parsed, nil
}
