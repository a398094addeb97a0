package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/misterclayt0n/ferro/internal/engine"
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/misterclayt0n/ferro/internal/utils"
	"github.com/spf13/cobra"
)

var (
	generateProgramName string
	generateInputs      []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a plan from a program and your starting numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		program, err := st.GetProgramByName(generateProgramName)
		if err != nil {
			return err
		}

		raw, err := parseInputPairs(generateInputs)
		if err != nil {
			return err
		}

		cfg, fieldErrs := engine.ValidateConfig(program.Inputs, raw)
		if fieldErrs != nil {
			// Atomic: nothing was applied. Report per field.
			red := color.New(color.FgRed, color.Bold)
			red.Println("Invalid inputs:")
			keys := make([]string, 0, len(fieldErrs))
			for k := range fieldErrs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  • %s: %s\n", k, fieldErrs[k])
			}
			return fmt.Errorf("plan not generated")
		}

		planID, err := st.CreatePlan(program, cfg)
		if err != nil {
			return fmt.Errorf("Failed to create plan: %w", err)
		}

		// A fresh plan has no previous replay to diff against.
		utils.ClearSnapshot()

		fmt.Printf("✅ Generated plan %s from '%s'\n", planID, program.Name)
		return nil
	},
}

// parseInputPairs turns repeated --set key=value flags into the raw config
// map the validator expects.
func parseInputPairs(pairs []string) (map[string]string, error) {
	raw := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("Invalid input %q, expected key=value", pair)
		}
		raw[key] = value
	}
	return raw, nil
}

func init() {
	generateCmd.Flags().StringVarP(&generateProgramName, "program", "p", "", "Program name")
	generateCmd.Flags().StringArrayVarP(&generateInputs, "set", "s", nil, "Input as key=value (repeatable)")
	generateCmd.MarkFlagRequired("program")
	rootCmd.AddCommand(generateCmd)
}
