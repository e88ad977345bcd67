// Package cmd defines the docquery command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docquery",
	Short: "docquery - grounded Q&A over your document corpus",
	Long: `docquery answers questions strictly from a pgvector document corpus.

Run "docquery serve" to start the HTTP API for the chat widget, or
"docquery ask" for a one-shot answer from the terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
