// Command lingobook-admin manages users and bulk imports directly against
// the lingobook database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/lingobook/internal/admin"
	"github.com/dmitrijs2005/lingobook/internal/server/config"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lingobook/internal/server/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, admin.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	global, rest := admin.SplitArgs(args)

	cfg, err := config.Load(global, os.LookupEnv)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	app := admin.NewApp(
		services.NewUserService(db, rm, cfg),
		services.NewVocabularyImporter(db, rm),
		services.NewBookImportService(db, rm),
		os.Stdin, os.Stdout,
	)
	return app.Run(ctx, rest)
}
