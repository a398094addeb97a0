package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ferro",
	Short: "CLI progression tracker for multi-week strength programs",
}

func Execute() error {
	return rootCmd.Execute()
}
