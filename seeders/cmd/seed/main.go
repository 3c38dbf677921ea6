package main

import (
	"context"
	"os"

	"geraetewart/pkg/config"
	"geraetewart/pkg/database/postgresql"
	applogger "geraetewart/pkg/logger"
	"geraetewart/seeders"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger := applogger.NewLogger()
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("Команда завершилась с ошибкой", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Migrationen und Startdaten für den Gerätewart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(logger),
		newRollbackCmd(logger),
		newSeedCmd(logger),
	)
	return root
}

func withDB(ctx context.Context, logger *zap.Logger, fn func(*pgxpool.Pool) error) error {
	cfg := config.New()
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool)
}

func newMigrateCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Alle Migrationen anwenden",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), logger, postgresql.Migrate)
		},
	}
}

func newRollbackCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Letzte Migration zurücknehmen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), logger, postgresql.Rollback)
		},
	}
}

func newSeedCmd(logger *zap.Logger) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Kategorien und Standorte anlegen, mit --demo auch Beispielinventar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withDB(ctx, logger, func(pool *pgxpool.Pool) error {
				if err := postgresql.Migrate(pool); err != nil {
					return err
				}
				if err := seeders.SeedDictionaries(ctx, pool, logger); err != nil {
					return err
				}
				if demo {
					return seeders.SeedDemo(ctx, pool, logger)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "Beispielpersonen, Inventar und Vorlagen anlegen")
	return cmd
}
