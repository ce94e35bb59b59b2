package extract

import (
	"testing"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCQs_PlainMarkers(t *testing.T) {
	text := `1. What is a goroutine?
A) A lightweight thread
B) A package
C) A compiler flag
D) A struct
Answer: A

2. What does defer do?
A) Panics
B) Delays a call until return
C) Starts a goroutine
D) Nothing
Answer: b`

	mcqs := MCQs(text)
	require.Len(t, mcqs, 2)
	assert.Equal(t, "What is a goroutine?", mcqs[0].Text)
	assert.Equal(t, "A lightweight thread", mcqs[0].OptionA)
	assert.Equal(t, models.OptionA, mcqs[0].Correct)
	// Answer letter is normalized to upper case.
	assert.Equal(t, models.OptionB, mcqs[1].Correct)
}

func TestMCQs_BracketedStyle(t *testing.T) {
	text := `1. Pick one
(A) first
(B) second
(C) third
(D) fourth
Answer: C`

	mcqs := MCQs(text)
	require.Len(t, mcqs, 1)
	assert.Equal(t, "second", mcqs[0].OptionB)
	assert.Equal(t, models.OptionC, mcqs[0].Correct)
}

func TestMCQs_LowercaseStyle(t *testing.T) {
	text := `3. Lowercase markers
a) one
b) two
c) three
d) four
Answer: D`

	mcqs := MCQs(text)
	require.Len(t, mcqs, 1)
	assert.Equal(t, "Lowercase markers", mcqs[0].Text)
	assert.Equal(t, models.OptionD, mcqs[0].Correct)
}

func TestMCQs_UnparseableFallsBackToSamples(t *testing.T) {
	mcqs := MCQs("nothing that looks like a question")
	assert.Equal(t, SampleMCQs(), mcqs)
	require.NotEmpty(t, mcqs)
	for _, q := range mcqs {
		assert.True(t, q.Correct.Valid())
	}
}

func TestGeneratedQuestions_ParsesBlocks(t *testing.T) {
	text := `Q: What keyword declares a variable?
A) var
B) let
C) def
D) dim
Answer: A

Q: Which loop does Go have?
A) while
B) do-while
C) for
D) repeat
Answer: C`

	questions := GeneratedQuestions(text, 10)
	require.Len(t, questions, 2)
	assert.Equal(t, "What keyword declares a variable?", questions[0].Text)
	assert.Equal(t, "var", questions[0].OptionA)
	assert.Equal(t, models.OptionA, questions[0].Correct)
	assert.Equal(t, models.OptionC, questions[1].Correct)
}

func TestGeneratedQuestions_DropsMalformedBlocks(t *testing.T) {
	text := `Q: Missing options
Answer: A

Q: Bad answer letter
A) one
B) two
C) three
D) four
Answer: Z

Q: Good block
A) one
B) two
C) three
D) four
Answer: B`

	questions := GeneratedQuestions(text, 10)
	require.Len(t, questions, 1)
	assert.Equal(t, "Good block", questions[0].Text)
}

func TestGeneratedQuestions_Limit(t *testing.T) {
	text := `Q: one
A) a
B) b
C) c
D) d
Answer: A
Q: two
A) a
B) b
C) c
D) d
Answer: B
Q: three
A) a
B) b
C) c
D) d
Answer: C`

	questions := GeneratedQuestions(text, 2)
	require.Len(t, questions, 2)
	assert.Equal(t, "one", questions[0].Text)
	assert.Equal(t, "two", questions[1].Text)
}

func TestGeneratedQuestions_EmptyInput(t *testing.T) {
	assert.Empty(t, GeneratedQuestions("", 5))
	assert.Empty(t, GeneratedQuestions("free text without markers", 5))
}
