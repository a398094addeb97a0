package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/misterclayt0n/ferro/internal/models"
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/misterclayt0n/ferro/internal/utils"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show plan progress: logged workouts, reference values, stage positions, estimated 1RMs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		_, t, err := loadCurrentTracker(st)
		if err != nil {
			return err
		}

		program := t.Program()
		rows := t.Rows()

		// A workout counts as logged once every non-GPP slot has a result.
		logged := 0
		slotResults := 0
		bestE1RM := make(map[string]float64)
		var lastLogged time.Time

		for _, row := range rows {
			complete := true
			for _, sr := range row.Slots {
				if sr.Result == models.ResultUndefined {
					if !sr.IsGpp {
						complete = false
					}
					continue
				}
				slotResults++
				if sr.IsAmrap && sr.Result == models.ResultSuccess && sr.AmrapReps > 0 {
					e1rm := utils.CalculateEpley1RM(sr.Weight, sr.AmrapReps)
					if e1rm > bestE1RM[sr.Exercise] {
						bestE1RM[sr.Exercise] = e1rm
					}
				}
			}
			if complete && len(row.Slots) > 0 {
				logged++
			}
		}
		for _, oc := range t.Outcomes() {
			if oc.LoggedAt.After(lastLogged) {
				lastLogged = oc.LoggedAt
			}
		}

		printBoxedHeader("PLAN STATUS")

		printMetric("Program", fmt.Sprintf("%s (v%d)", program.Name, program.Version))
		printMetric("Workouts completed", fmt.Sprintf("%d of %d", logged, program.TotalWorkoutCount()))
		printMetric("Results logged", slotResults)
		if !lastLogged.IsZero() {
			printMetric("Last logged", utils.FormatSaoPaulo(lastLogged))
		}
		fmt.Println()

		header := color.New(color.FgGreen, color.Bold)
		header.Println("Reference values:")
		cfg := t.Config()
		keys := make([]string, 0, len(cfg.Values))
		for k := range cfg.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  • %s: %g kg\n", color.New(color.FgMagenta, color.Bold).Sprint(k), cfg.Values[k])
		}
		fmt.Println()

		if len(bestE1RM) > 0 {
			header.Println("Estimated 1RM (best AMRAP set):")
			var names []string
			for name := range bestE1RM {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  • %s: %.1f kg\n", color.New(color.FgMagenta, color.Bold).Sprint(name), bestE1RM[name])
			}
			fmt.Println()
		}

		return nil
	},
}

// printBoxedHeader prints the title in a Unicode box with a fixed width.
func printBoxedHeader(title string) {
	width := 40
	cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
	border := strings.Repeat("═", width)
	fmt.Println(cyanBold("╔" + border + "╗"))
	fmt.Println(cyanBold("║" + centerText(title, width) + "║"))
	fmt.Println(cyanBold("╚" + border + "╝"))
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-len(s)-padding)
}

// printMetric prints a label and value using bold yellow for the label.
func printMetric(label string, value interface{}) {
	yellowBold := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Printf("  %s: %v\n", yellowBold(label), value)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
