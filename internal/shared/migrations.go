package shared

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration represents a database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version   int
	AppliedAt time.Time
}

// loadMigrations reads all migration files from the embedded filesystem and returns them sorted by version.
//
// Files are named "<version>_<name>_up.sql" and "<version>_<name>_down.sql".
func loadMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	migrationMap := make(map[int]*Migration)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		version, label, direction, ok := parseMigrationName(name)
		if !ok {
			continue
		}

		content, err := migrationFiles.ReadFile(path.Join("sql", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		if migrationMap[version] == nil {
			migrationMap[version] = &Migration{Version: version, Name: label}
		}

		switch direction {
		case "up":
			migrationMap[version].Up = string(content)
		case "down":
			migrationMap[version].Down = string(content)
		}
	}

	var migrations []Migration
	for _, migration := range migrationMap {
		if migration.Up == "" || migration.Down == "" {
			return nil, fmt.Errorf("incomplete migration for version %d", migration.Version)
		}
		migrations = append(migrations, *migration)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// parseMigrationName splits "0001_unique_movie_title_up.sql" into (1, "unique_movie_title", "up").
func parseMigrationName(filename string) (int, string, string, bool) {
	base := strings.TrimSuffix(filename, ".sql")
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return 0, "", "", false
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", "", false
	}

	direction := parts[len(parts)-1]
	if direction != "up" && direction != "down" {
		return 0, "", "", false
	}

	return version, strings.Join(parts[1:len(parts)-1], "_"), direction, true
}

// RunMigrations executes all pending migrations on the database.
// Creates a schema_migrations table to track applied migrations.
func RunMigrations(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range migrations {
		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", migration.Version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}

		if exists {
			continue
		}

		if err := execMigration(db, migration.Up, "INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	return backfillTitleKeys(db)
}

// backfillTitleKeys fills title_key for rows written before the column existed.
//
// Older rows win. A row whose key collides with an earlier movie keeps a NULL key; its next update reports the duplicate.
func backfillTitleKeys(db *sql.DB) error {
	rows, err := db.Query("SELECT id, title FROM movies WHERE title_key IS NULL ORDER BY id ASC")
	if err != nil {
		return fmt.Errorf("failed to query titles without key: %w", err)
	}

	type keyless struct {
		id    int64
		title string
	}
	var pending []keyless
	for rows.Next() {
		var k keyless
		if err := rows.Scan(&k.id, &k.title); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan title: %w", err)
		}
		pending = append(pending, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, k := range pending {
		_, err := db.Exec("UPDATE movies SET title_key = ? WHERE id = ?", NormalizeTitle(k.title), k.id)
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to backfill title key for movie %d: %w", k.id, err)
		}
	}

	return nil
}

// RollbackMigration rolls back the most recent migration.
func RollbackMigration(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := AppliedMigrations(db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("no migrations to rollback")
	}

	currentVersion := applied[len(applied)-1].Version
	for _, migration := range migrations {
		if migration.Version == currentVersion {
			if err := execMigration(db, migration.Down, "DELETE FROM schema_migrations WHERE version = ?", migration.Version); err != nil {
				return fmt.Errorf("failed to rollback migration %d (%s): %w", migration.Version, migration.Name, err)
			}
			return nil
		}
	}

	return fmt.Errorf("migration version %d not found", currentVersion)
}

// AppliedMigrations lists applied migrations in version order.
func AppliedMigrations(db *sql.DB) ([]AppliedMigration, error) {
	if err := createMigrationsTable(db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.Query("SELECT version, applied_at FROM schema_migrations ORDER BY version ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var m AppliedMigration
		if err := rows.Scan(&m.Version, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		applied = append(applied, m)
	}

	return applied, rows.Err()
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist.
func createMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := db.Exec(query)
	return err
}

// execMigration runs each statement of script and the bookkeeping statement in a single transaction.
func execMigration(db *sql.DB, script, bookkeeping string, version int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}

	if _, err := tx.Exec(bookkeeping, version); err != nil {
		return err
	}

	return tx.Commit()
}

// removeComments removes SQL line comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
