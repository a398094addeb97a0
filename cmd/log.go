package cmd

import (
	"fmt"
	"strconv"

	"github.com/misterclayt0n/ferro/internal/models"
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/spf13/cobra"
)

var (
	logResult string
	logAmrap  int
	logRPE    float64
	logNote   string
)

var logCmd = &cobra.Command{
	Use:   "log [workout] [slot-id]",
	Short: "Log a result for one slot of one workout",
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

		oc := models.Outcome{
			Result:    logResult,
			AmrapReps: logAmrap,
			Note:      logNote,
		}
		if cmd.Flags().Changed("rpe") {
			rpe := logRPE
			oc.RPE = &rpe
		}

		if err := t.LogOutcome(workout, args[1], oc); err != nil {
			return fmt.Errorf("Failed to log result: %w", err)
		}

		if err := persistTracker(st, plan.ID, t); err != nil {
			return err
		}

		fmt.Printf("✅ Logged %s for '%s' in workout %d\n", logResult, args[1], workout+1)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVarP(&logResult, "result", "r", "", "Result: success or fail")
	logCmd.Flags().IntVarP(&logAmrap, "amrap", "a", 0, "Reps performed on the AMRAP set")
	logCmd.Flags().Float64VarP(&logRPE, "rpe", "e", 0, "RPE of the working set")
	logCmd.Flags().StringVarP(&logNote, "note", "n", "", "Free-form note")
	logCmd.MarkFlagRequired("result")
	rootCmd.AddCommand(logCmd)
}
