package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/questdb"
)

// Migration represents a database migration
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
	DownSQL   string
}

// Runner handles migration execution
type Runner struct {
	client       questdb.QuestDBClient
	log          logger.Interface
	migrationDir string
}

// NewRunner creates a new migration runner
func NewRunner(client questdb.QuestDBClient, log logger.Interface, migrationDir string) *Runner {
	return &Runner{
		client:       client,
		log:          log,
		migrationDir: migrationDir,
	}
}

// EnsureMigrationTable creates the schema_migrations table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	createTableSQL := `CREATE TABLE IF NOT EXISTS schema_migrations (
	id STRING,
	name STRING,
	applied_at TIMESTAMP
) TIMESTAMP(applied_at) PARTITION BY DAY;`
	return r.client.Exec(ctx, createTableSQL)
}

// GetAppliedMigrations returns the set of applied migration IDs
func (r *Runner) GetAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := r.client.Query(ctx, "SELECT id FROM schema_migrations ORDER BY applied_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads every *.up.sql file in the migration directory, sorted by name.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := filepath.Glob(filepath.Join(r.migrationDir, "*.up.sql"))
	if err != nil {
		return nil, err
	}

	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		migration, err := parseMigrationFiles(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", upFile, err)
		}
		migrations = append(migrations, migration)
	}

	return migrations, nil
}

// parseMigrationFiles reads an up file and its optional down sibling.
// File names follow YYYYMMDDHHMMSS_name.up.sql; other prefixes get a zero timestamp.
func parseMigrationFiles(upFilePath string) (Migration, error) {
	upContent, err := os.ReadFile(upFilePath)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(filepath.Base(upFilePath), ".up.sql")
	downFilePath := strings.TrimSuffix(upFilePath, ".up.sql") + ".down.sql"

	parts := strings.SplitN(id, "_", 2)
	name := id
	if len(parts) > 1 {
		name = parts[1]
	}

	timestamp, err := time.Parse("20060102150405", parts[0])
	if err != nil {
		timestamp = time.Unix(0, 0).UTC()
	}

	var downSQL string
	if downContent, err := os.ReadFile(downFilePath); err == nil {
		downSQL = strings.TrimSpace(string(downContent))
	}

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(upContent)),
		DownSQL:   downSQL,
	}, nil
}

// MigrateUp applies pending migrations. steps <= 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toApply []Migration
	for _, migration := range migrations {
		if !applied[migration.ID] {
			toApply = append(toApply, migration)
		}
	}

	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	for _, migration := range toApply {
		if migration.UpSQL == "" {
			r.log.Warn("migration has no up statement", logger.NewField("migration", migration.ID))
			continue
		}

		if err := r.client.Exec(ctx, migration.UpSQL); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.ID, err)
		}

		if err := r.client.Exec(ctx, "INSERT INTO schema_migrations VALUES ($1, $2, now())", migration.ID, migration.Name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.ID, err)
		}

		r.log.Info("applied migration", logger.NewField("migration", migration.ID))
	}

	return nil
}

// MigrateDown reverts the last steps applied migrations.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toRevert []Migration
	for i := len(migrations) - 1; i >= 0 && len(toRevert) < steps; i-- {
		if applied[migrations[i].ID] {
			toRevert = append(toRevert, migrations[i])
		}
	}

	for _, migration := range toRevert {
		if migration.DownSQL == "" {
			return fmt.Errorf("no DOWN SQL found for migration %s - cannot revert", migration.ID)
		}

		if err := r.client.Exec(ctx, migration.DownSQL); err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", migration.ID, err)
		}

		if err := r.client.Exec(ctx, "DELETE FROM schema_migrations WHERE id = $1", migration.ID); err != nil {
			return fmt.Errorf("failed to remove migration record %s: %w", migration.ID, err)
		}

		r.log.Info("reverted migration", logger.NewField("migration", migration.ID))
	}

	return nil
}
