package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/misterclayt0n/ferro/internal/models"
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/spf13/cobra"
)

var showProgramCmd = &cobra.Command{
	Use:   "show-program [name]",
	Short: "Show a program's days, slots and declared inputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		program, err := st.GetProgramByName(args[0])
		if err != nil {
			return err
		}

		title := color.New(color.FgCyan, color.Bold)
		title.Printf("%s (v%d)\n", program.Name, program.Version)
		if program.Description != "" {
			fmt.Println(program.Description)
		}
		fmt.Printf("%d weeks, %d workouts/week, %d workouts total\n\n",
			program.Weeks, program.WorkoutsPerWeek, program.TotalWorkoutCount())

		header := color.New(color.FgGreen, color.Bold)
		header.Println("Inputs:")
		for _, field := range program.Inputs {
			switch field.Kind {
			case models.FieldChoice:
				var opts []string
				for _, o := range field.Options {
					opts = append(opts, o.Value)
				}
				fmt.Printf("  • %s (%s): one of %s\n", field.Key, field.Label, strings.Join(opts, ", "))
			default:
				fmt.Printf("  • %s (%s): weight ≥ %g, step %g\n", field.Key, field.Label, field.Min, field.Step)
			}
		}
		fmt.Println()

		for _, day := range program.Days {
			header.Printf("%s:\n", day.Name)
			for _, slot := range day.Slots {
				fmt.Printf("  • %s", describeSlot(&slot))
				fmt.Println()
			}
		}

		return nil
	},
}

func describeSlot(slot *models.Slot) string {
	var sb strings.Builder
	if slot.Tier != "" {
		fmt.Fprintf(&sb, "[%s] ", slot.Tier)
	}
	fmt.Fprintf(&sb, "%s (%s)", slot.Exercise, slot.ID)

	switch {
	case slot.IsGpp:
		sb.WriteString(" - GPP, pass/fail")
	case len(slot.Prescriptions) > 0:
		fmt.Fprintf(&sb, " - %d-step ladder of %s", len(slot.Prescriptions), slot.PercentOf)
	case len(slot.Stages) > 0:
		fmt.Fprintf(&sb, " - %d stages", len(slot.Stages))
		if slot.TrainingMaxKey != "" {
			fmt.Fprintf(&sb, ", %g%% of %s", slot.TMPercent, slot.TrainingMaxKey)
		} else {
			fmt.Fprintf(&sb, ", starts at %s", slot.StartWeightKey)
		}
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(showProgramCmd)
}
