package cmd

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // required for SQLite
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/spf13/cobra"
)

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database file ferro.db",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := sql.Open("sqlite3", "file:./ferro.db?cache=shared&mode=rwc")
		if err != nil {
			return fmt.Errorf("Failed to open database: %w", err)
		}
		defer db.Close()

		if err := storage.InitializeDB(db); err != nil {
			return fmt.Errorf("Failed to initialize database: %w", err)
		}
		fmt.Println("✅ Database initialized successfully as ferro.db")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
}
