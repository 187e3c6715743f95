package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "multifast",
	Short: "multifast - multi-pattern secret scanner",
	Long: `multifast is a fast secrets scanner that finds credentials in code and text content.
It runs detection rules through an Aho-Corasick keyword prefilter followed by a regex
secondary stage to identify sensitive data like API keys, passwords, and tokens, and
can redact literal-keyword rules in place via the same automaton.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(redactCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exploreCmd)
	// serveCmd registers itself in serve.go's init()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
