package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pombredanne/multifast/pkg/scanner"
	"github.com/spf13/cobra"
)

var (
	redactRulesPath    string
	redactRulesInclude string
	redactRulesExclude string
	redactInputPath    string
	redactOutputPath   string
	redactIgnoreCase   bool
)

var redactCmd = &cobra.Command{
	Use:   "redact",
	Short: "Replace matched keywords in place",
	Long: `Redact runs the literal-keyword redaction rules through the shared
Aho-Corasick automaton and rewrites every match with its rule's replacement
text. Detection rules with a secondary regex pattern take no part in
redaction; only rules carrying a Replacement are used.

Reads from stdin by default, or --input; writes to stdout by default, or
--output.`,
	RunE: runRedact,
}

func init() {
	redactCmd.Flags().StringVar(&redactRulesPath, "rules", "", "Path to custom rules file or directory")
	redactCmd.Flags().StringVar(&redactRulesInclude, "rules-include", "", "Include rules matching regex pattern (comma-separated)")
	redactCmd.Flags().StringVar(&redactRulesExclude, "rules-exclude", "", "Exclude rules matching regex pattern (comma-separated)")
	redactCmd.Flags().StringVar(&redactInputPath, "input", "", "Input file (defaults to stdin)")
	redactCmd.Flags().StringVar(&redactOutputPath, "output", "", "Output file (defaults to stdout)")
	redactCmd.Flags().BoolVar(&redactIgnoreCase, "ignore-case", false, "Case-insensitive keyword matching (ASCII only, folds output case too)")
}

func runRedact(cmd *cobra.Command, args []string) error {
	rules, err := loadRules(redactRulesPath, redactRulesInclude, redactRulesExclude)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	if redactIgnoreCase {
		rules = lowercaseRuleKeywords(rules)
	}

	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}

	core, err := scanner.NewCore(string(rulesJSON), nil)
	if err != nil {
		return fmt.Errorf("creating scanner: %w", err)
	}
	defer core.Close()

	var content []byte
	if redactInputPath != "" {
		content, err = os.ReadFile(redactInputPath)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	} else {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	if redactIgnoreCase {
		content = []byte(strings.ToLower(string(content)))
	}

	redacted, err := core.Redact(content)
	if err != nil {
		return fmt.Errorf("redacting: %w", err)
	}

	if redactOutputPath != "" {
		return os.WriteFile(redactOutputPath, redacted, 0644)
	}

	_, err = cmd.OutOrStdout().Write(redacted)
	return err
}
