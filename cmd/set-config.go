package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/misterclayt0n/ferro/internal/engine"
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/spf13/cobra"
)

var setConfigCmd = &cobra.Command{
	Use:   "set-config [key=value...]",
	Short: "Edit the current plan's config (training maxes, 1RMs, choices)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		plan, t, err := loadCurrentTracker(st)
		if err != nil {
			return err
		}

		overrides, err := parseInputPairs(args)
		if err != nil {
			return err
		}

		// Re-validate the whole record: existing values as raw strings with
		// the overrides applied on top. Accept all or nothing.
		raw := make(map[string]string)
		for key, value := range t.Config().Values {
			raw[key] = strconv.FormatFloat(value, 'g', -1, 64)
		}
		for key, value := range t.Config().Choices {
			raw[key] = value
		}
		for key, value := range overrides {
			raw[key] = value
		}

		cfg, fieldErrs := engine.ValidateConfig(t.Program().Inputs, raw)
		if fieldErrs != nil {
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
			return fmt.Errorf("config not updated")
		}

		t.UpdateConfig(cfg)

		if err := st.SaveConfig(plan.ID, cfg); err != nil {
			return err
		}

		fmt.Println("✅ Config updated, projected weights recomputed")
		return nil
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Show the current plan's config",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		_, t, err := loadCurrentTracker(st)
		if err != nil {
			return err
		}

		cfg := t.Config()
		keys := make([]string, 0, len(cfg.Values))
		for k := range cfg.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s = %g\n", k, cfg.Values[k])
		}

		keys = keys[:0]
		for k := range cfg.Choices {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s = %s\n", k, cfg.Choices[k])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setConfigCmd)
	rootCmd.AddCommand(showConfigCmd)
}
