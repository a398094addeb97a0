package cmd

import (
	"fmt"

	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/spf13/cobra"
)

var deleteProgramCmd = &cobra.Command{
	Use:   "delete-program [name]",
	Short: "Delete a program and everything attached to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		exists, err := st.ProgramExists(args[0])
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("Program '%s' not found", args[0])
		}

		if err := st.DeleteProgramByName(args[0]); err != nil {
			return fmt.Errorf("Failed to delete program: %w", err)
		}

		fmt.Printf("✅ Deleted program '%s'\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteProgramCmd)
}
