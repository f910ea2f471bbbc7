package quiz

import (
	"fmt"

	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/models"
)

// ChoiceCount is the number of choices a full question offers
const ChoiceCount = 4

const promptSeparator = "\n"

// QuestionSource produces a fresh question for a mode
type QuestionSource interface {
	Generate(mode models.QuestionType) (*models.Question, error)
}

// Generator builds questions from a corpus using its own random source.
// A Generator is not safe for concurrent use; give each session its own.
type Generator struct {
	corpus *corpus.Corpus
	rng    corpus.Rand
}

// NewGenerator creates a generator drawing from c with randomness from rng
func NewGenerator(c *corpus.Corpus, rng corpus.Rand) *Generator {
	return &Generator{corpus: c, rng: rng}
}

// Generate dispatches to the builder for mode
func (g *Generator) Generate(mode models.QuestionType) (*models.Question, error) {
	switch mode {
	case models.QuestionLowerVerse:
		return g.LowerVerse()
	case models.QuestionAuthor:
		return g.Author()
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

// LowerVerse builds a question showing the upper verse and offering four
// lower verses, three of them taken from other poems.
func (g *Generator) LowerVerse() (q *models.Question, err error) {
	defer recoverGeneration(&err)

	correct, err := g.pickCorrect()
	if err != nil {
		return nil, err
	}

	distractors := g.corpus.SampleDistinct(g.rng, ChoiceCount-1, correct.ID)
	if len(distractors) != ChoiceCount-1 {
		return nil, fmt.Errorf("%w: got %d distractors, want %d", ErrQuestionGenerationFailed, len(distractors), ChoiceCount-1)
	}

	choices := make([]string, 0, ChoiceCount)
	for _, d := range distractors {
		choices = append(choices, d.Lower)
	}
	choices = append(choices, correct.Lower)
	g.shuffle(choices)

	return &models.Question{
		Poem:          correct,
		Type:          models.QuestionLowerVerse,
		Prompt:        correct.Upper,
		Choices:       choices,
		CorrectAnswer: correct.Lower,
	}, nil
}

// Author builds a question showing the whole poem and offering up to four
// distinct author names. When the distractors share authors the set is
// topped up from poems with unseen authors; if none remain the question
// carries fewer than four choices.
func (g *Generator) Author() (q *models.Question, err error) {
	defer recoverGeneration(&err)

	correct, err := g.pickCorrect()
	if err != nil {
		return nil, err
	}

	choices := make([]string, 0, ChoiceCount)
	seen := make(map[string]bool, ChoiceCount)
	add := func(author string) {
		if !seen[author] {
			seen[author] = true
			choices = append(choices, author)
		}
	}

	add(correct.Author)
	for _, d := range g.corpus.SampleDistinct(g.rng, ChoiceCount-1, correct.ID) {
		add(d.Author)
	}

	for len(choices) < ChoiceCount {
		eligible := g.corpus.Filter(func(p *models.Poem) bool {
			return p.ID != correct.ID && !seen[p.Author]
		})
		if len(eligible) == 0 {
			break
		}
		add(eligible[g.rng.IntN(len(eligible))].Author)
	}
	g.shuffle(choices)

	return &models.Question{
		Poem:          correct,
		Type:          models.QuestionAuthor,
		Prompt:        correct.Upper + promptSeparator + correct.Lower,
		Choices:       choices,
		CorrectAnswer: correct.Author,
	}, nil
}

func (g *Generator) pickCorrect() (*models.Poem, error) {
	if g.corpus == nil || g.corpus.Len() < ChoiceCount {
		return nil, ErrInsufficientCorpus
	}
	p, err := g.corpus.SampleOne(g.rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuestionGenerationFailed, err)
	}
	return p, nil
}

func (g *Generator) shuffle(s []string) {
	g.rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
