package storage

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/misterclayt0n/ferro/internal/config"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

type Storage struct {
	DB *sql.DB
}

func NewStorage() *Storage {
	url := connectionString()

	db, err := sql.Open("libsql", url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open db %s: %s", url, err)
		os.Exit(1)
	}

	if err := InitializeDB(db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v", err)
		os.Exit(1)
	}

	return &Storage{DB: db}
}

// connectionString resolves the DB location: config file first, then the
// environment (.env is loaded if present).
func connectionString() string {
	if cfg, err := config.LoadConfig(); err == nil && cfg.DB.ConnectionString != "" {
		return cfg.DB.ConnectionString
	}

	godotenv.Load()

	url := os.Getenv("FERRO_DATABASE_URL")
	if url == "" {
		url = os.Getenv("TURSO_DATABASE_URL")
	}
	if url == "" {
		fmt.Fprintf(os.Stderr, "No database configured: set [database] in config.toml or FERRO_DATABASE_URL")
		os.Exit(1)
	}
	return url
}

func InitializeDB(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS programs (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            description TEXT,
            version INTEGER NOT NULL,
            weeks INTEGER,
            workouts_per_week INTEGER,
            total_workouts INTEGER,
            inputs TEXT NOT NULL,      -- JSON: declared config fields
            created_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS program_days (
            id TEXT PRIMARY KEY,
            program_id TEXT NOT NULL,
            name TEXT NOT NULL,
            order_index INTEGER NOT NULL,
            FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS program_slots (
            id TEXT PRIMARY KEY,
            day_id TEXT NOT NULL,
            slot_id TEXT NOT NULL,
            order_index INTEGER NOT NULL,
            definition TEXT NOT NULL,  -- JSON: full slot body
            FOREIGN KEY (day_id) REFERENCES program_days(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS plans (
            id TEXT PRIMARY KEY,
            program_id TEXT NOT NULL,
            created_at TEXT NOT NULL,
            FOREIGN KEY (program_id) REFERENCES programs(id)
        );

        CREATE TABLE IF NOT EXISTS plan_config (
            plan_id TEXT NOT NULL,
            key TEXT NOT NULL,
            kind TEXT NOT NULL,
            value TEXT NOT NULL,
            PRIMARY KEY (plan_id, key),
            FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS plan_outcomes (
            plan_id TEXT NOT NULL,
            seq INTEGER NOT NULL,
            workout_index INTEGER NOT NULL,
            slot_id TEXT NOT NULL,
            result TEXT NOT NULL,
            amrap_reps INTEGER,
            rpe REAL,
            note TEXT,
            logged_at TEXT NOT NULL,
            PRIMARY KEY (plan_id, seq),
            FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS plan_undo (
            plan_id TEXT NOT NULL,
            seq INTEGER NOT NULL,
            workout_index INTEGER NOT NULL,
            slot_id TEXT NOT NULL,
            previous TEXT,             -- JSON of the overwritten outcome, NULL if none
            PRIMARY KEY (plan_id, seq),
            FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS current_plan (
            plan_id TEXT PRIMARY KEY,
            FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
        );
    `)
	return err
}
