package cmd

import (
	"fmt"
	"strconv"

	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent logged result",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()
		plan, t, err := loadCurrentTracker(st)
		if err != nil {
			return err
		}

		if err := t.UndoLast(); err != nil {
			return err
		}

		if err := persistTracker(st, plan.ID, t); err != nil {
			return err
		}

		fmt.Println("✅ Undid last result")
		return nil
	},
}

var undoAtCmd = &cobra.Command{
	Use:   "undo-at [workout] [slot-id]",
	Short: "Undo the most recent edit of one specific slot occurrence",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workout, err := strconv.Atoi(args[0])
		if err != nil || workout < 1 {
			return fmt.Errorf("Invalid workout index. Must be a positive integer")
		}
		workout--

		st := storage.NewStorage()
		plan, t, err := loadCurrentTracker(st)
		if err != nil {
			return err
		}

		if err := t.UndoSpecific(workout, args[1]); err != nil {
			return err
		}

		if err := persistTracker(st, plan.ID, t); err != nil {
			return err
		}

		fmt.Printf("✅ Undid result for '%s' in workout %d\n", args[1], workout+1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(undoAtCmd)
}
