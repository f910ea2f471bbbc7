package cli

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hyakuninquiz/internal/config"
	"hyakuninquiz/internal/models"
	"hyakuninquiz/internal/quiz"
	"hyakuninquiz/internal/service"
)

func newPlayCommand(root *rootOptions) *cobra.Command {
	var (
		corpusPath string
		mode       string
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		Long: `Play one quiz session in the terminal.

Commands at the prompt:
  1-4  answer with the numbered choice
  n    next question
  m    switch between lower verse and author questions
  r    reset the score
  q    quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if corpusPath != "" {
				cfg.CorpusSource = config.CorpusSourceFile
				cfg.CorpusPath = corpusPath
			}
			if mode == "" {
				mode = cfg.DefaultMode
			}
			if seed == 0 {
				seed = cfg.RandomSeed
			}
			questionType, err := models.ParseQuestionType(mode)
			if err != nil {
				return err
			}

			logger := root.newLogger()
			defer logger.Sync()

			corpusService := service.NewCorpusService(nil, logger)
			if cfg.CorpusSource == config.CorpusSourceDatabase {
				db, err := openDatabase(cfg, logger)
				if err != nil {
					return err
				}
				defer db.Close()
				corpusService = service.NewCorpusService(db, logger)
			}

			c, err := corpusService.Load(service.LoadOptionsFromConfig(cfg))
			if err != nil {
				return err
			}

			sessions, err := service.NewSessionService(c, service.SessionOptions{
				DefaultMode: questionType,
				Seed:        seed,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			return runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), sessions)
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Corpus file to play with (overrides CORPUS_SOURCE/CORPUS_PATH)")
	cmd.Flags().StringVar(&mode, "mode", "", "Starting mode: lower_verse or author (default DEFAULT_MODE)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for a reproducible game (default RANDOM_SEED)")
	return cmd
}

// runPlay drives one game session from line-oriented input until q or EOF
func runPlay(in io.Reader, out io.Writer, sessions *service.SessionService) error {
	_, game := sessions.Create()
	scanner := bufio.NewScanner(in)

	for {
		if _, err := game.EnsureQuestion(); err != nil {
			if errors.Is(err, quiz.ErrInsufficientCorpus) {
				return err
			}
			fmt.Fprintf(out, "Could not build a question: %v\n", err)
		}
		render(out, game.Snapshot())

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		command := strings.TrimSpace(scanner.Text())
		switch command {
		case "q":
			fmt.Fprintln(out, "Bye.")
			return nil
		case "n":
			if _, err := game.RequestQuestion(); err != nil {
				fmt.Fprintf(out, "Could not build a question: %v\n", err)
			}
		case "m":
			next := models.QuestionAuthor
			if game.Mode() == models.QuestionAuthor {
				next = models.QuestionLowerVerse
			}
			if _, err := game.ChangeMode(next); err != nil {
				return err
			}
			fmt.Fprintf(out, "Mode: %s\n", next.Label())
		case "r":
			game.ResetScore()
			fmt.Fprintln(out, "Score reset.")
		default:
			answer(out, sessions, game, command)
		}
	}
}

func answer(out io.Writer, sessions *service.SessionService, game *quiz.GameSession, command string) {
	snap := game.Snapshot()
	n, err := strconv.Atoi(command)
	if err != nil || snap.Question == nil || n < 1 || n > len(snap.Question.Choices) {
		fmt.Fprintln(out, "Enter a choice number, or n / m / r / q.")
		return
	}

	result, err := sessions.SubmitAnswer(game, snap.Question.Choices[n-1])
	if err != nil {
		fmt.Fprintf(out, "Could not record the answer: %v\n", err)
		return
	}
	if !result.Recorded {
		fmt.Fprintln(out, "Already answered. Press n for the next question.")
	}
}

func render(out io.Writer, snap quiz.Snapshot) {
	score := snap.Score
	fmt.Fprintf(out, "\n[%s] score %d/%d (%.0f%%)\n", snap.Mode.Label(), score.Correct, score.Total, score.Percentage())

	q := snap.Question
	if q == nil {
		return
	}

	fmt.Fprintln(out, q.Prompt)
	if q.Poem != nil {
		if q.Type == models.QuestionLowerVerse {
			fmt.Fprintf(out, "(%s)\n", q.Poem.ReadingUpper)
		} else {
			fmt.Fprintf(out, "(%s %s)\n", q.Poem.ReadingUpper, q.Poem.ReadingLower)
		}
	}
	for i, choice := range q.Choices {
		fmt.Fprintf(out, "  %d) %s\n", i+1, choice)
	}

	if !snap.Answered() {
		return
	}
	if snap.Correct {
		fmt.Fprintln(out, "Correct!")
	} else {
		fmt.Fprintf(out, "Wrong. The answer is: %s\n", q.CorrectAnswer)
	}
	if p := q.Poem; p != nil {
		fmt.Fprintf(out, "  %s\n", p.Author)
		fmt.Fprintf(out, "  %s\n", p.FullText())
		fmt.Fprintf(out, "  %s %s\n", p.ReadingUpper, p.ReadingLower)
		if p.Description != "" {
			// descriptions are stored HTML-safe; the terminal wants plain text
			fmt.Fprintf(out, "  %s\n", html.UnescapeString(p.Description))
		}
	}
}
