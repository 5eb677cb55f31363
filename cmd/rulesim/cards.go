package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/carddb"
)

var cardDirs []string

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Work with card definition files",
}

var cardsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate every card definition file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := carddb.LoadDir(dirs(), logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d card definitions OK\n", lib.Len())
		return nil
	},
}

var cardsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load card definition files into Postgres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("database-url")
		if url == "" {
			url = cfg.Cards.DatabaseURL
		}
		if url == "" {
			return fmt.Errorf("no database: pass --database-url or set cards.database_url")
		}

		lib, err := carddb.LoadDir(dirs(), logger)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		pool, err := carddb.Connect(ctx, url)
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := carddb.NewPostgresRepository(pool, cfg.Cards.Table, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := repo.Upsert(ctx, lib.Definitions()); err != nil {
			return err
		}
		logger.Info("import complete", zap.String("table", cfg.Cards.Table), zap.Int("cards", lib.Len()))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d card definitions\n", lib.Len())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&cardDirs, "dir", nil, "card definition directory (repeatable, overrides cards.dirs)")
	cardsImportCmd.Flags().String("database-url", "", "Postgres URL (overrides cards.database_url)")

	cardsCmd.AddCommand(cardsValidateCmd, cardsImportCmd)
	rootCmd.AddCommand(cardsCmd)
}

func dirs() []string {
	if len(cardDirs) > 0 {
		return cardDirs
	}
	return cfg.Cards.Dirs
}

// loadLibrary reads the stored definitions when a database is configured,
// otherwise the configured directories. Directories passed with --dir are
// merged into the stored set.
func loadLibrary(ctx context.Context) (*carddb.Library, error) {
	if cfg.Cards.DatabaseURL == "" {
		return carddb.LoadDir(dirs(), logger)
	}

	pool, err := carddb.Connect(ctx, cfg.Cards.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	lib, err := carddb.NewPostgresRepository(pool, cfg.Cards.Table, logger).Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(cardDirs) == 0 {
		return lib, nil
	}

	extra, err := carddb.LoadDir(cardDirs, logger)
	if err != nil {
		return nil, err
	}
	if err := lib.Merge(extra); err != nil {
		return nil, fmt.Errorf("merge %v into stored definitions: %w", cardDirs, err)
	}
	return lib, nil
}
