package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/quiz"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a corpus file without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := corpus.Open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "poems:       %d\n", c.Len())
			fmt.Fprintf(out, "authors:     %d\n", c.DistinctAuthors())
			fmt.Fprintf(out, "fingerprint: %s\n", c.Fingerprint())
			if c.Len() < quiz.ChoiceCount {
				fmt.Fprintf(out, "warning: at least %d poems are needed to build questions\n", quiz.ChoiceCount)
			}
			return nil
		},
	}
}
