package cmd

import (
	"fmt"
	"os"

	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/spf13/cobra"
)

var updateProgramCmd = &cobra.Command{
	Use:   "update-program [file]",
	Short: "Update an existing program from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		file, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := st.UpdateProgram(file); err != nil {
			return fmt.Errorf("failed to update program: %w", err)
		}

		fmt.Println("✅ Program updated successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateProgramCmd)
}
