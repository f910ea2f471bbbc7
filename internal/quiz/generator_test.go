package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/models"
	"hyakuninquiz/internal/testutil"
)

func newCorpus(t *testing.T, poems []models.Poem) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(poems)
	require.NoError(t, err)
	return c
}

func countOf(choices []string, s string) int {
	n := 0
	for _, c := range choices {
		if c == s {
			n++
		}
	}
	return n
}

func TestLowerVerseQuestionProperties(t *testing.T) {
	c := newCorpus(t, testutil.Poems(12))
	byLower := map[string]int64{}
	for _, p := range c.Poems() {
		byLower[p.Lower] = p.ID
	}

	for seed := uint64(0); seed < 200; seed++ {
		g := NewGenerator(c, testutil.Rand(seed))
		q, err := g.LowerVerse()
		require.NoError(t, err)

		assert.Equal(t, models.QuestionLowerVerse, q.Type)
		assert.Equal(t, q.Poem.Upper, q.Prompt)
		assert.Equal(t, q.Poem.Lower, q.CorrectAnswer)
		require.Len(t, q.Choices, ChoiceCount)
		assert.Equal(t, 1, countOf(q.Choices, q.CorrectAnswer))

		ids := map[int64]bool{}
		for _, choice := range q.Choices {
			id, ok := byLower[choice]
			require.True(t, ok, "choice %q does not come from the corpus", choice)
			ids[id] = true
		}
		assert.Len(t, ids, ChoiceCount, "choices must come from distinct poems")
	}
}

func TestAuthorQuestionProperties(t *testing.T) {
	c := newCorpus(t, testutil.PoemsByAuthors("a", "b", "a", "c", "d", "b", "e"))

	for seed := uint64(0); seed < 200; seed++ {
		g := NewGenerator(c, testutil.Rand(seed))
		q, err := g.Author()
		require.NoError(t, err)

		assert.Equal(t, models.QuestionAuthor, q.Type)
		assert.Equal(t, q.Poem.Upper+"\n"+q.Poem.Lower, q.Prompt)
		assert.Equal(t, q.Poem.Author, q.CorrectAnswer)
		assert.Equal(t, 1, countOf(q.Choices, q.CorrectAnswer))
		// five distinct authors are always reachable
		assert.Len(t, q.Choices, ChoiceCount)

		seen := map[string]bool{}
		for _, choice := range q.Choices {
			assert.False(t, seen[choice], "duplicate author %q", choice)
			seen[choice] = true
		}
	}
}

// Four poems, four authors.
func TestAuthorQuestionUsesAllFourAuthors(t *testing.T) {
	c := newCorpus(t, testutil.PoemsByAuthors("w", "x", "y", "z"))
	g := NewGenerator(c, testutil.Rand(11))

	q, err := g.Generate(models.QuestionAuthor)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"w", "x", "y", "z"}, q.Choices)
}

// Five poems, two sharing an author.
func TestAuthorQuestionNeverDuplicatesSharedAuthor(t *testing.T) {
	c := newCorpus(t, testutil.PoemsByAuthors("shared", "p", "shared", "q", "r"))

	for seed := uint64(0); seed < 300; seed++ {
		q, err := NewGenerator(c, testutil.Rand(seed)).Author()
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, choice := range q.Choices {
			require.False(t, seen[choice], "seed %d: duplicate author %q in %v", seed, choice, q.Choices)
			seen[choice] = true
		}
		assert.Len(t, q.Choices, ChoiceCount)
	}
}

func TestAuthorQuestionShortWhenAuthorsRunOut(t *testing.T) {
	c := newCorpus(t, testutil.PoemsByAuthors("a", "a", "b", "b", "a"))

	for seed := uint64(0); seed < 50; seed++ {
		q, err := NewGenerator(c, testutil.Rand(seed)).Author()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, q.Choices)
	}
}

func TestGeneratorInsufficientCorpus(t *testing.T) {
	c := newCorpus(t, testutil.Poems(3))
	g := NewGenerator(c, testutil.Rand(1))

	for _, mode := range []models.QuestionType{models.QuestionLowerVerse, models.QuestionAuthor} {
		q, err := g.Generate(mode)
		assert.Nil(t, q)
		assert.ErrorIs(t, err, ErrInsufficientCorpus)
	}
}

func TestGeneratorInvalidMode(t *testing.T) {
	g := NewGenerator(newCorpus(t, testutil.Poems(4)), testutil.Rand(1))
	_, err := g.Generate("haiku")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

type panickingRand struct{}

func (panickingRand) IntN(int) int { panic("entropy exhausted") }
func (panickingRand) Shuffle(int, func(i, j int)) {}

func TestGeneratorRecoversFaults(t *testing.T) {
	g := NewGenerator(newCorpus(t, testutil.Poems(4)), panickingRand{})

	q, err := g.LowerVerse()
	assert.Nil(t, q)
	assert.True(t, errors.Is(err, ErrQuestionGenerationFailed), "got %v", err)
}

func TestGeneratorDeterministicUnderSeed(t *testing.T) {
	c := newCorpus(t, testutil.Poems(20))

	a, err := NewGenerator(c, testutil.Rand(99)).LowerVerse()
	require.NoError(t, err)
	b, err := NewGenerator(c, testutil.Rand(99)).LowerVerse()
	require.NoError(t, err)

	assert.Equal(t, a.Poem.ID, b.Poem.ID)
	assert.Equal(t, a.Choices, b.Choices)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		submitted string
		correct   string
		want      bool
	}{
		{"わが衣手は", "わが衣手は", true},
		{"わが衣手は ", "わが衣手は", false},
		{"Author", "author", false},
		{"", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Evaluate(tt.submitted, tt.correct), "Evaluate(%q, %q)", tt.submitted, tt.correct)
	}
}

func TestScoreTracker(t *testing.T) {
	var tr ScoreTracker
	tr.Record(true)
	tr.Record(false)
	tr.Record(true)
	assert.Equal(t, models.Score{Correct: 2, Total: 3}, tr.Score())

	tr.Reset()
	assert.Equal(t, models.Score{}, tr.Score())
}
