package cmd

import (
	"fmt"

	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/misterclayt0n/ferro/internal/utils"
	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every logged result of the current plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			return fmt.Errorf("This clears the whole outcome log. Pass --force to confirm")
		}

		st := storage.NewStorage()
		plan, t, err := loadCurrentTracker(st)
		if err != nil {
			return err
		}

		t.ResetAll()

		if err := st.ResetPlan(plan.ID); err != nil {
			return err
		}
		utils.ClearSnapshot()

		fmt.Println("✅ Plan reset to its starting numbers")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Confirm the reset")
	rootCmd.AddCommand(resetCmd)
}
