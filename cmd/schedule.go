package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/misterclayt0n/ferro/internal/models"
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/misterclayt0n/ferro/internal/utils"
	"github.com/spf13/cobra"
)

var scheduleWeek int

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the materialized schedule for the current plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		plan, t, err := loadCurrentTracker(st)
		if err != nil {
			return err
		}

		perWeek := t.Program().WorkoutsPerWeek
		for _, row := range t.Rows() {
			if scheduleWeek > 0 && perWeek > 0 && row.Index/perWeek != scheduleWeek-1 {
				continue
			}
			printWorkout(row)
		}

		// What the user has now seen becomes the baseline: the next edit's
		// moved rows get flagged against this view.
		if err := utils.SaveSnapshot(t.Snapshot(plan.ID)); err != nil {
			return fmt.Errorf("Failed to save replay snapshot: %w", err)
		}

		return nil
	},
}

func printWorkout(row models.WorkoutRow) {
	header := color.New(color.FgCyan, color.Bold)
	header.Printf("Workout %d - %s\n", row.Index+1, row.DayName)

	for _, sr := range row.Slots {
		fmt.Printf("  %s\n", formatSlotRow(sr))
		for _, p := range sr.Prescriptions {
			if !p.Warmup {
				continue
			}
			fmt.Printf("      %dx%d @ %.1f kg (%.0f%%)\n", p.Sets, p.Reps, p.Weight, p.Percent)
		}
	}
	fmt.Println()
}

func formatSlotRow(sr models.SlotRow) string {
	var sb strings.Builder

	if sr.Tier != "" {
		fmt.Fprintf(&sb, "[%s] ", sr.Tier)
	}
	sb.WriteString(sr.Exercise)

	switch {
	case sr.Unresolved:
		bad := color.New(color.FgRed, color.Bold).Sprintf("unresolved: %s", sr.Problem)
		return sb.String() + " " + bad

	case sr.IsGpp:
		sb.WriteString(" (GPP)")

	default:
		reps := fmt.Sprintf("%d", sr.Reps)
		if sr.RepsMax > 0 {
			reps = fmt.Sprintf("%d-%d", sr.Reps, sr.RepsMax)
		}
		if sr.IsAmrap {
			reps += "+"
		}
		fmt.Fprintf(&sb, " %dx%s @ %.1f kg", sr.Sets, reps, sr.Weight)
		if len(sr.Prescriptions) == 0 {
			fmt.Fprintf(&sb, " (stage %d)", sr.Stage+1)
		}
	}

	if sr.IsDeload {
		sb.WriteString(" " + color.New(color.FgCyan).Sprint("deload"))
	}
	if sr.IsChanged {
		sb.WriteString(" " + color.New(color.FgYellow, color.Bold).Sprint("↺ moved"))
	}

	switch sr.Result {
	case models.ResultSuccess:
		mark := "✓"
		if sr.AmrapReps > 0 {
			mark = fmt.Sprintf("✓ %d reps", sr.AmrapReps)
		}
		sb.WriteString(" " + color.New(color.FgGreen, color.Bold).Sprint(mark))
	case models.ResultFail:
		sb.WriteString(" " + color.New(color.FgRed, color.Bold).Sprint("✗"))
	}

	if sr.RPE != nil && sr.Role != models.RoleAccessory {
		fmt.Fprintf(&sb, " @RPE %.1f", *sr.RPE)
	}

	return sb.String()
}

func init() {
	scheduleCmd.Flags().IntVarP(&scheduleWeek, "week", "w", 0, "Only show the given week (1-based)")
	rootCmd.AddCommand(scheduleCmd)
}
