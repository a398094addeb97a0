package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/misterclayt0n/ferro/internal/engine"
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/spf13/cobra"
)

var importProgramCmd = &cobra.Command{
	Use:   "import-program [file]",
	Short: "Import a program definition from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		file, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		program, err := st.CreateProgram(file)
		if err != nil {
			return fmt.Errorf("failed to import program: %w", err)
		}

		// Definition problems are reported per-slot but do not block the
		// import; affected slots render as unresolved in the schedule.
		if problems := engine.ValidateProgram(program); len(problems) > 0 {
			warn := color.New(color.FgYellow, color.Bold)
			warn.Println("Program imported with definition problems:")
			for _, p := range problems {
				fmt.Printf("  • %s\n", p)
			}
		}

		fmt.Println("✅ Program imported successfully")
		return nil
	},
}

var listProgramsCmd = &cobra.Command{
	Use:   "list-programs",
	Short: "List all programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		programs, err := st.ListPrograms()
		if err != nil {
			return err
		}

		for _, p := range programs {
			fmt.Printf("%s - %s (v%d)\n", p.ID, p.Name, p.Version)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importProgramCmd)
	rootCmd.AddCommand(listProgramsCmd)
}
