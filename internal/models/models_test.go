package models

import (
	"errors"
	"testing"
)

func TestPoemValidate(t *testing.T) {
	valid := Poem{
		ID:           1,
		Author:       "天智天皇",
		Upper:        "秋の田の かりほの庵の 苫をあらみ",
		Lower:        "わが衣手は 露にぬれつつ",
		ReadingUpper: "あきのたの かりほのいほの とまをあらみ",
		ReadingLower: "わがころもでは つゆにぬれつつ",
	}

	tests := []struct {
		name      string
		mutate    func(p *Poem)
		wantField string
	}{
		{
			name:   "valid poem without description",
			mutate: func(p *Poem) {},
		},
		{
			name:      "missing author",
			mutate:    func(p *Poem) { p.Author = "" },
			wantField: "author",
		},
		{
			name:      "blank lower verse",
			mutate:    func(p *Poem) { p.Lower = "   " },
			wantField: "lower",
		},
		{
			name:      "missing reading",
			mutate:    func(p *Poem) { p.ReadingLower = "" },
			wantField: "reading_lower",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Poem.Validate() unexpected error = %v", err)
				}
				return
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Poem.Validate() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestParseQuestionType(t *testing.T) {
	tests := []struct {
		input   string
		want    QuestionType
		wantErr bool
	}{
		{"lower_verse", QuestionLowerVerse, false},
		{"author", QuestionAuthor, false},
		{"Author", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseQuestionType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Fatalf("ParseQuestionType(%q) error = %v, want ErrInvalidMode", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuestionType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseQuestionType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScorePercentage(t *testing.T) {
	tests := []struct {
		name  string
		score Score
		want  float64
	}{
		{"no answers", Score{Correct: 0, Total: 0}, 0},
		{"perfect", Score{Correct: 4, Total: 4}, 100},
		{"three of five", Score{Correct: 3, Total: 5}, 60},
		{"none correct", Score{Correct: 0, Total: 7}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.score.Percentage(); got != tt.want {
				t.Errorf("Percentage() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}
