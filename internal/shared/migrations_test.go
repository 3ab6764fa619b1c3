package shared

import "testing"

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("loadMigrations() returned no migrations")
	}

	for i, m := range migrations {
		if i > 0 && m.Version <= migrations[i-1].Version {
			t.Errorf("loadMigrations() not sorted: version %d after %d", m.Version, migrations[i-1].Version)
		}
		if m.Up == "" || m.Down == "" {
			t.Errorf("loadMigrations() version %d missing a direction", m.Version)
		}
	}
}

func TestRunMigrations(t *testing.T) {
	t.Run("creates schema and records versions", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM runs LIMIT 1"); err != nil {
			t.Errorf("runs table should exist after migrations: %v", err)
		}

		var applied int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		migrations, _ := loadMigrations()
		if applied != len(migrations) {
			t.Errorf("RunMigrations() applied %d versions, want %d", applied, len(migrations))
		}
	})

	t.Run("repeat run applies nothing new", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() first run error = %v", err)
		}
		var before int
		db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&before)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() second run error = %v", err)
		}
		var after int
		db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&after)

		if after != before {
			t.Errorf("RunMigrations() applied count changed %d -> %d on rerun", before, after)
		}
	})
}

func TestRollbackMigration(t *testing.T) {
	t.Run("reverts the highest version", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}
		var before int
		db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&before)

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("RollbackMigration() error = %v", err)
		}

		var after int
		db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&after)
		if after != before-1 {
			t.Errorf("RollbackMigration() applied count = %d, want %d", after, before-1)
		}

		// Version 0 drops the runs table on the way down.
		if before == 1 {
			if _, err := db.Exec("SELECT 1 FROM runs LIMIT 1"); err == nil {
				t.Error("runs table should be gone after rolling back its migration")
			}
		}
	})

	t.Run("nothing applied", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("CREATE TABLE schema_migrations (version INTEGER PRIMARY KEY)"); err != nil {
			t.Fatalf("failed to create empty migrations table: %v", err)
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("RollbackMigration() should fail with no applied migrations")
		}
	})
}

func TestStripLineComments(t *testing.T) {
	in := "-- header comment\nCREATE TABLE t (\n  id TEXT -- trailing\n)\n\n"
	want := "CREATE TABLE t (\nid TEXT\n)"
	if got := stripLineComments(in); got != want {
		t.Errorf("stripLineComments() = %q, want %q", got, want)
	}
}
