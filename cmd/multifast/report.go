package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pombredanne/multifast/pkg/rule"
	"github.com/pombredanne/multifast/pkg/sarif"
	"github.com/pombredanne/multifast/pkg/store"
	"github.com/pombredanne/multifast/pkg/types"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	reportDatastore string
	reportFormat    string
	reportColor     string
)

// styles holds color formatters for report output
type styles struct {
	findingHeading *color.Color
	id             *color.Color
	ruleName       *color.Color
	heading        *color.Color
	match          *color.Color
	metadata       *color.Color
}

// newStyles creates color formatters for report output.
// enabled=false respects --color=never and NO_COLOR.
func newStyles(enabled bool) *styles {
	s := &styles{
		findingHeading: color.New(color.Bold, color.FgHiWhite),
		id:             color.New(color.FgHiGreen),
		ruleName:       color.New(color.Bold, color.FgHiBlue),
		heading:        color.New(color.Bold),
		match:          color.New(color.FgYellow),
		metadata:       color.New(color.FgHiBlue),
	}

	if !enabled {
		s.findingHeading.DisableColor()
		s.id.DisableColor()
		s.ruleName.DisableColor()
		s.heading.DisableColor()
		s.match.DisableColor()
		s.metadata.DisableColor()
	}

	return s
}

// snippetParts holds separated snippet components for colored output
type snippetParts struct {
	prefix   string // "..." if truncated at start
	before   string
	matching string
	after    string
	suffix   string // "..." if truncated at end
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from scan results",
	Long:  "Read findings from a datastore and output a summary report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "findings.db", "Path to datastore directory or file")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
}

func runReport(cmd *cobra.Command, args []string) error {
	storePath := reportDatastore

	if storePath == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}

	info, err := os.Stat(storePath)
	if err != nil {
		return fmt.Errorf("datastore not found: %s", storePath)
	}
	if info.IsDir() {
		storePath = filepath.Join(storePath, "findings.db")
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	findings, err := s.GetFindings()
	if err != nil {
		return fmt.Errorf("retrieving findings: %w", err)
	}

	loader := rule.NewLoader()
	rules, err := loader.LoadBuiltinRules()
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	ruleMap := make(map[string]*types.Rule)
	for _, r := range rules {
		ruleMap[r.ID] = r
	}

	switch reportFormat {
	case "json":
		return outputReportJSON(cmd, findings)
	case "human":
		return outputReportHuman(cmd, findings, ruleMap)
	case "sarif":
		return outputReportSARIF(cmd, findings, rules)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// formatSnippetWithParts separates a snippet into parts for colored output,
// centering a window of maxLen chars around the matched text.
func formatSnippetWithParts(before, matching, after []byte, maxLen int) snippetParts {
	full := string(before) + string(matching) + string(after)

	if len(full) <= maxLen {
		return snippetParts{
			before:   string(before),
			matching: string(matching),
			after:    string(after),
		}
	}

	matchStart := len(before)
	matchEnd := matchStart + len(matching)
	matchLen := len(matching)

	if matchLen >= maxLen {
		return snippetParts{
			prefix:   "...",
			matching: string(matching[:maxLen-6]),
			suffix:   "...",
		}
	}

	availableContext := maxLen - matchLen - 6
	halfContext := availableContext / 2

	start := matchStart - halfContext
	end := matchEnd + halfContext

	if start < 0 {
		end -= start
		start = 0
	}
	if end > len(full) {
		start -= end - len(full)
		if start < 0 {
			start = 0
		}
		end = len(full)
	}

	parts := snippetParts{}
	if start > 0 {
		parts.prefix = "..."
	}

	windowMatchStart := matchStart - start
	windowMatchEnd := matchEnd - start

	if windowMatchStart > 0 {
		parts.before = full[start:matchStart]
	}
	parts.matching = full[matchStart:matchEnd]
	if windowMatchEnd < end-start {
		parts.after = full[matchEnd:end]
	}

	if end < len(full) {
		parts.suffix = "..."
	}

	return parts
}

func outputReportJSON(cmd *cobra.Command, findings []*types.Finding) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(findings)
}

func outputReportSARIF(cmd *cobra.Command, findings []*types.Finding, rules []*types.Rule) error {
	report := sarif.NewReport()
	for _, r := range rules {
		report.AddRule(r)
	}
	for _, f := range findings {
		report.AddResult(f, "")
	}
	jsonBytes, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing SARIF: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(jsonBytes)
	return err
}

func outputReportHuman(cmd *cobra.Command, findings []*types.Finding, ruleMap map[string]*types.Rule) error {
	out := cmd.OutOrStdout()

	switch reportColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}
	s := newStyles(!color.NoColor)

	total := len(findings)

	for i, f := range findings {
		fmt.Fprintf(out, "%s (%s %s)\n",
			s.findingHeading.Sprintf("Finding %d/%d", i+1, total),
			s.heading.Sprint("id"),
			s.id.Sprint(f.StructuralID))

		ruleName := f.RuleName
		if ruleName == "" {
			if r, ok := ruleMap[f.RuleID]; ok {
				ruleName = r.Name
			} else {
				ruleName = f.RuleID
			}
		}
		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Rule:"), s.ruleName.Sprint(ruleName))

		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Source:"), s.metadata.Sprint(f.Source))

		if f.Location.Source.Start.Line > 0 {
			fmt.Fprintf(out, "%s %d:%d-%d:%d\n",
				s.heading.Sprint("Lines:"),
				f.Location.Source.Start.Line, f.Location.Source.Start.Column,
				f.Location.Source.End.Line, f.Location.Source.End.Column)
		}

		parts := formatSnippetWithParts(f.Snippet.Before, f.Snippet.Matching, f.Snippet.After, 500)
		if parts.prefix != "" || parts.before != "" || parts.matching != "" || parts.after != "" || parts.suffix != "" {
			fmt.Fprintf(out, "\n    %s%s%s%s%s\n",
				parts.prefix,
				parts.before,
				s.match.Sprint(parts.matching),
				parts.after,
				parts.suffix)
		}

		fmt.Fprintf(out, "\n\n")
	}

	return nil
}
