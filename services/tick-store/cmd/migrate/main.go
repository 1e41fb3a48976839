package main

import (
	"context"
	"flag"
	"os"

	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/migration"
	"github.com/muhammadchandra19/stockstream/pkg/questdb"
	"github.com/muhammadchandra19/stockstream/services/tick-store/pkg/config"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of migrations to apply, 0 means all (up) or one (down)")
	dir := flag.String("dir", "", "migrations directory, overrides MIGRATIONS_DIR")
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Error(err, logger.NewField("action", "load_config"))
		os.Exit(1)
	}
	if *dir != "" {
		cfg.MigrationsDir = *dir
	}

	ctx := context.Background()
	client, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Error(err, logger.NewField("action", "connect_questdb"))
		os.Exit(1)
	}
	defer client.Close()

	runner := migration.NewRunner(client, log, cfg.MigrationsDir)
	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.Error(err, logger.NewField("action", "ensure_migration_table"))
		os.Exit(1)
	}

	switch *direction {
	case "up":
		err = runner.MigrateUp(ctx, *steps)
	case "down":
		n := *steps
		if n == 0 {
			n = 1
		}
		err = runner.MigrateDown(ctx, n)
	default:
		log.Warn("unknown direction", logger.NewField("direction", *direction))
		os.Exit(2)
	}
	if err != nil {
		log.Error(err, logger.NewField("action", "migrate_"+*direction))
		os.Exit(1)
	}

	log.Info("migrations completed", logger.NewField("direction", *direction))
}
