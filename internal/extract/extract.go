// Package extract parses multiple choice questions out of unstructured
// text: numbered MCQ blocks from document extractions and the labeled
// Q/A blocks produced by the generative client.
package extract

import (
	"regexp"
	"strings"

	"github.com/quizforge/quiz-service/internal/models"
)

// ParsedMCQ is one question recovered from text, not yet attached to a
// topic or difficulty.
type ParsedMCQ struct {
	Text    string
	OptionA string
	OptionB string
	OptionC string
	OptionD string
	Correct models.OptionLetter
}

// The three numbered-MCQ layouts seen in the wild: "A)", "(A)" and
// "a)" option markers, each block terminated by an "Answer: X" line.
var mcqPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(\d+)\.\s*(.*?)\nA\)\s*(.*?)\nB\)\s*(.*?)\nC\)\s*(.*?)\nD\)\s*(.*?)\nAnswer:\s*([A-D])`),
	regexp.MustCompile(`(?is)(\d+)\.\s*(.*?)\n\(A\)\s*(.*?)\n\(B\)\s*(.*?)\n\(C\)\s*(.*?)\n\(D\)\s*(.*?)\nAnswer:\s*([A-D])`),
	regexp.MustCompile(`(?is)(\d+)\.\s*(.*?)\na\)\s*(.*?)\nb\)\s*(.*?)\nc\)\s*(.*?)\nd\)\s*(.*?)\nAnswer:\s*([A-D])`),
}

// MCQs parses numbered question blocks from extracted document text.
// Patterns are tried in order and the first one that matches anything
// wins. Text that matches nothing yields the built-in sample set, so an
// unreadable upload still produces an importable result.
func MCQs(text string) []ParsedMCQ {
	for _, pattern := range mcqPatterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		mcqs := make([]ParsedMCQ, 0, len(matches))
		for _, m := range matches {
			mcqs = append(mcqs, ParsedMCQ{
				Text:    strings.TrimSpace(m[2]),
				OptionA: strings.TrimSpace(m[3]),
				OptionB: strings.TrimSpace(m[4]),
				OptionC: strings.TrimSpace(m[5]),
				OptionD: strings.TrimSpace(m[6]),
				Correct: models.OptionLetter(strings.ToUpper(strings.TrimSpace(m[7]))),
			})
		}
		return mcqs
	}

	return SampleMCQs()
}

// GeneratedQuestions parses the "Q: ... A) ... Answer: X" blocks the
// generation prompt asks for. Blocks with missing options or an invalid
// answer letter are dropped; malformed input yields an empty slice, not
// an error.
func GeneratedQuestions(text string, limit int) []ParsedMCQ {
	var questions []ParsedMCQ
	var current *ParsedMCQ
	var options []string

	flush := func() {
		if current == nil {
			return
		}
		if len(options) >= 4 && current.Correct.Valid() && current.Text != "" {
			current.OptionA = options[0]
			current.OptionB = options[1]
			current.OptionC = options[2]
			current.OptionD = options[3]
			questions = append(questions, *current)
		}
		current = nil
		options = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Q:"):
			flush()
			current = &ParsedMCQ{Text: strings.TrimSpace(line[2:])}
		case hasOptionPrefix(line):
			if current != nil {
				options = append(options, strings.TrimSpace(line[2:]))
			}
		case strings.HasPrefix(line, "Answer:"):
			if current != nil {
				answer := strings.ToUpper(strings.TrimSpace(line[len("Answer:"):]))
				current.Correct = models.OptionLetter(answer)
			}
		}
	}
	flush()

	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions
}

func hasOptionPrefix(line string) bool {
	return strings.HasPrefix(line, "A)") ||
		strings.HasPrefix(line, "B)") ||
		strings.HasPrefix(line, "C)") ||
		strings.HasPrefix(line, "D)")
}

// SampleMCQs is the fallback set used when extraction finds nothing.
func SampleMCQs() []ParsedMCQ {
	return []ParsedMCQ{
		{
			Text:    "What is the output of print('Hello World')",
			OptionA: "Hello World",
			OptionB: "hello world",
			OptionC: "HELLO WORLD",
			OptionD: "Error",
			Correct: models.OptionA,
		},
		{
			Text:    "Which of the following is a Python data type?",
			OptionA: "int",
			OptionB: "string",
			OptionC: "boolean",
			OptionD: "All of the above",
			Correct: models.OptionD,
		},
	}
}
