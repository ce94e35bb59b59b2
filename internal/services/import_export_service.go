package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
	"github.com/quizforge/quiz-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

// ImportExportService handles file import/export for the question banks.
// Imports land in the curated bank; exports cover both banks.
type ImportExportService interface {
	ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)

	ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
	ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
}

type importExportService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, logger utils.Logger, v *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

// ===== IMPORT OPERATIONS =====

// ImportRowError describes why one spreadsheet row was rejected.
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

type ImportResult struct {
	TotalRows    int              `json:"total_rows"`
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Errors       []ImportRowError `json:"errors,omitempty"`
}

var importColumns = []string{"topic", "question", "option_a", "option_b", "option_c", "option_d", "correct_answer"}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string) (*ImportResult, error) {
	s.logger.Info("Starting question import", "filename", filename)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, file)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, file)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return s.importRows(ctx, records)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importRows(ctx, rows)
}

func (s *importExportService) importRows(ctx context.Context, rows [][]string) (*ImportResult, error) {
	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range importColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &ImportResult{TotalRows: len(rows) - 1}
	var questions []*models.CuratedQuestion

	for rowIndex, row := range rows[1:] {
		question, rowErrors := s.parseRow(row, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		question.Number = len(questions) + 1
		questions = append(questions, question)
		result.SuccessCount++
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateCurated(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to save imported questions: %w", err)
		}
	}

	s.logger.Info("Question import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.CuratedQuestion, []ImportRowError) {
	var rowErrors []ImportRowError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}
	requireColumn := func(name string) string {
		value := getColumn(name)
		if value == "" {
			rowErrors = append(rowErrors, ImportRowError{
				Row: rowNum, Column: name, Message: "required field",
			})
		}
		return value
	}

	question := &models.CuratedQuestion{
		Topic:    requireColumn("topic"),
		Subtopic: getColumn("subtopic"),
		Text:     requireColumn("question"),
		OptionA:  requireColumn("option_a"),
		OptionB:  requireColumn("option_b"),
		OptionC:  requireColumn("option_c"),
		OptionD:  requireColumn("option_d"),
		Approved: true,
	}
	if question.Subtopic == "" {
		question.Subtopic = "General"
	}

	correct := models.OptionLetter(strings.ToUpper(requireColumn("correct_answer")))
	if len(rowErrors) > 0 {
		return nil, rowErrors
	}
	if !correct.Valid() {
		return nil, []ImportRowError{{
			Row: rowNum, Column: "correct_answer",
			Message: "must be A, B, C or D", Value: string(correct),
		}}
	}
	question.Correct = correct

	question.Difficulty = normalizeDifficulty(getColumn("difficulty"))

	return question, nil
}

// normalizeDifficulty maps case-insensitive difficulty labels to their
// canonical form, defaulting unknown values to Medium.
func normalizeDifficulty(value string) models.DifficultyLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy":
		return models.DifficultyEasy
	case "hard":
		return models.DifficultyHard
	default:
		return models.DifficultyMedium
	}
}

// ===== EXPORT OPERATIONS =====

var exportHeaders = []string{
	"Source", "Topic", "Subtopic", "Difficulty", "Question",
	"Option A", "Option B", "Option C", "Option D", "Correct Answer",
}

func (s *importExportService) ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, err := s.repo.Question().Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for export: %w", err)
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, question := range questions {
		if err := writer.Write(questionToRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return []byte(buf.String()), nil
}

func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, err := s.repo.Question().Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for export: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIndex, question := range questions {
		for colIndex, value := range questionToRow(question) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func questionToRow(q models.Question) []string {
	return []string{
		string(q.Ref.Source),
		q.Topic,
		q.Subtopic,
		string(q.Difficulty),
		q.Text,
		q.Options.A,
		q.Options.B,
		q.Options.C,
		q.Options.D,
		string(q.Correct),
	}
}
