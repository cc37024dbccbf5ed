package shared

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
			if m.Name == "" {
				t.Errorf("migration version %d missing name", m.Version)
			}
		}
	})

	t.Run("parseMigrationName", func(t *testing.T) {
		tt := []struct {
			file      string
			version   int
			name      string
			direction string
			ok        bool
		}{
			{"0000_create_movies_up.sql", 0, "create_movies", "up", true},
			{"0001_unique_movie_title_down.sql", 1, "unique_movie_title", "down", true},
			{"abcd_create_up.sql", 0, "", "", false},
			{"0002_sideways.sql", 0, "", "", false},
			{"0003_create_movies_left.sql", 0, "", "", false},
		}

		for _, tc := range tt {
			version, name, direction, ok := parseMigrationName(tc.file)
			if ok != tc.ok {
				t.Errorf("%s: ok = %v, want %v", tc.file, ok, tc.ok)
				continue
			}
			if !ok {
				continue
			}
			if version != tc.version || name != tc.name || direction != tc.direction {
				t.Errorf("%s: got (%d, %s, %s)", tc.file, version, name, direction)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(MemoryDatabase)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		applied, err := AppliedMigrations(db)
		if err != nil {
			t.Fatalf("failed to list applied migrations: %v", err)
		}
		if len(applied) == 0 {
			t.Fatal("expected at least one migration to be applied")
		}

		if _, err := db.Exec("SELECT 1 FROM movies LIMIT 1"); err != nil {
			t.Errorf("movies table should exist after migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		after, err := AppliedMigrations(db)
		if err != nil {
			t.Fatalf("failed to list applied migrations after rollback: %v", err)
		}
		if len(after) != len(applied)-1 {
			t.Errorf("expected %d migrations after rollback, got %d", len(applied)-1, len(after))
		}
	})

	t.Run("Rollback Without Migrations", func(t *testing.T) {
		db, err := NewDatabase(MemoryDatabase)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing has been applied")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(MemoryDatabase)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("OpenMigrated File Database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "movies.db")

		db, err := OpenMigrated(DatabaseConfig{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("failed to open migrated database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("INSERT INTO movies (title) VALUES ('Dune')"); err != nil {
			t.Fatalf("failed to insert into migrated database: %v", err)
		}
	})

	t.Run("Schema Rejects Blank Title", func(t *testing.T) {
		db, err := OpenMigrated(DatabaseConfig{Path: MemoryDatabase})
		if err != nil {
			t.Fatalf("failed to open migrated database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("INSERT INTO movies (title) VALUES ('   ')"); err == nil {
			t.Error("expected CHECK constraint to reject blank title")
		}
		if _, err := db.Exec("INSERT INTO movies (title) VALUES (NULL)"); err == nil {
			t.Error("expected NOT NULL constraint to reject null title")
		}
	})

	t.Run("Backfills Title Keys", func(t *testing.T) {
		db, err := OpenMigrated(DatabaseConfig{Path: MemoryDatabase})
		if err != nil {
			t.Fatalf("failed to open migrated database: %v", err)
		}
		defer db.Close()

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to roll back title key migration: %v", err)
		}
		for _, title := range []string{"Amélie", "AMÉLIE", "Heat"} {
			if _, err := db.Exec("INSERT INTO movies (title) VALUES (?)", title); err != nil {
				t.Fatalf("failed to insert %q: %v", title, err)
			}
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to re-run migrations: %v", err)
		}

		rows, err := db.Query("SELECT title, title_key FROM movies ORDER BY id")
		if err != nil {
			t.Fatalf("failed to query keys: %v", err)
		}
		defer rows.Close()

		got := map[string]sql.NullString{}
		for rows.Next() {
			var title string
			var key sql.NullString
			if err := rows.Scan(&title, &key); err != nil {
				t.Fatalf("failed to scan: %v", err)
			}
			got[title] = key
		}

		if got["Amélie"].String != "amélie" {
			t.Errorf("expected key 'amélie', got %+v", got["Amélie"])
		}
		if got["Heat"].String != "heat" {
			t.Errorf("expected key 'heat', got %+v", got["Heat"])
		}
		if got["AMÉLIE"].Valid {
			t.Errorf("expected colliding title to keep a NULL key, got %q", got["AMÉLIE"].String)
		}
	})
}
