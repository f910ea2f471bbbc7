package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hyakuninquiz/internal/config"
	"hyakuninquiz/internal/service"
)

func newImportCommand(root *rootOptions) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a corpus file into the database",
		Long: `Validate a JSON or YAML corpus file and upsert every poem into the
configured database by id. Export documents written by "quizctl export" are
accepted too. Use --clear to empty the poems table first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := root.newLogger()
			defer logger.Sync()

			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := service.NewCorpusService(db, logger).Import(args[0], clear)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if clear {
				fmt.Fprintf(out, "Removed %d existing poems\n", result.Deleted)
			}
			fmt.Fprintf(out, "Imported %d poems (fingerprint %s)\n", result.Imported, result.Fingerprint)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete existing poems before importing (destructive)")
	return cmd
}
