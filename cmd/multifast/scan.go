package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pombredanne/multifast/pkg/rule"
	"github.com/pombredanne/multifast/pkg/sarif"
	"github.com/pombredanne/multifast/pkg/scanner"
	"github.com/pombredanne/multifast/pkg/store"
	"github.com/pombredanne/multifast/pkg/types"
	"github.com/spf13/cobra"
)

// stderrLogger satisfies scanner.DebugLogger for --verbose runs, coloring
// debug lines the way the rest of the CLI colors its output.
type stderrLogger struct{}

var debugColor = color.New(color.FgHiBlack)

func (stderrLogger) Log(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, debugColor.Sprintf(format, args...))
}

var (
	scanRulesPath     string
	scanRulesInclude  string
	scanRulesExclude  string
	scanOutputPath    string
	scanOutputFormat  string
	scanMaxFileSize   int64
	scanIncludeHidden bool
	scanIgnoreCase    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Scan a target for secrets",
	Long:  "Scan a file or directory for secrets using detection rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanRulesPath, "rules", "", "Path to custom rules file or directory")
	scanCmd.Flags().StringVar(&scanRulesInclude, "rules-include", "", "Include rules matching regex pattern (comma-separated)")
	scanCmd.Flags().StringVar(&scanRulesExclude, "rules-exclude", "", "Exclude rules matching regex pattern (comma-separated)")
	scanCmd.Flags().StringVar(&scanOutputPath, "output", "findings.db", "Output database path")
	scanCmd.Flags().StringVar(&scanOutputFormat, "format", "human", "Output format: json, sarif, human")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to scan (bytes)")
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	scanCmd.Flags().BoolVar(&scanIgnoreCase, "ignore-case", false, "Case-insensitive keyword matching (ASCII only)")
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	rules, err := loadRules(scanRulesPath, scanRulesInclude, scanRulesExclude)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	if scanIgnoreCase {
		rules = lowercaseRuleKeywords(rules)
	}

	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}

	var logger scanner.DebugLogger = scanner.NoopLogger{}
	if verbose {
		logger = stderrLogger{}
	}

	core, err := scanner.NewCore(string(rulesJSON), logger)
	if err != nil {
		return fmt.Errorf("creating scanner: %w", err)
	}
	defer core.Close()

	if verbose {
		fmt.Fprintln(os.Stderr, "--- prefilter automaton ---")
		if err := core.WriteDebug(os.Stderr); err != nil {
			return fmt.Errorf("writing debug dump: %w", err)
		}
	}

	s, err := store.New(store.Config{Path: scanOutputPath})
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()

	findingCount := 0

	visit := func(path string) error {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		text := string(content)
		if scanIgnoreCase {
			text = strings.ToLower(text)
		}

		result, err := core.Scan(text, path)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}

		for i := range result.Findings {
			f := &result.Findings[i]
			exists, err := s.FindingExists(f.StructuralID)
			if err != nil {
				return fmt.Errorf("checking finding: %w", err)
			}
			if exists {
				continue
			}
			if err := s.AddFinding(f); err != nil {
				return fmt.Errorf("storing finding: %w", err)
			}
			findingCount++
		}

		return nil
	}

	if info.IsDir() {
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if !scanIncludeHidden && d.Name() != "." && strings.HasPrefix(d.Name(), ".") && path != target {
					return filepath.SkipDir
				}
				return nil
			}
			if !scanIncludeHidden && strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			if fi.Size() > scanMaxFileSize {
				return nil
			}
			return visit(path)
		})
	} else {
		err = visit(target)
	}

	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	if scanOutputFormat == "json" || scanOutputFormat == "sarif" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scan complete: %d findings\n", findingCount)
		fmt.Fprintf(cmd.ErrOrStderr(), "Results stored in: %s\n", scanOutputPath)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Scan complete: %d findings\n", findingCount)
		fmt.Fprintf(cmd.OutOrStdout(), "Results stored in: %s\n", scanOutputPath)
	}

	findings, err := s.GetFindings()
	if err != nil {
		return fmt.Errorf("retrieving findings: %w", err)
	}

	switch scanOutputFormat {
	case "json":
		return outputFindings(cmd, findings)
	case "sarif":
		return outputSARIF(cmd, rules, findings)
	default:
		return outputFindings(cmd, findings)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func loadRules(path, include, exclude string) ([]*types.Rule, error) {
	loader := rule.NewLoader()

	var rules []*types.Rule
	var err error

	if path != "" {
		r, err := loader.LoadRuleFile(path)
		if err != nil {
			return nil, err
		}
		rules = []*types.Rule{r}
	} else {
		rules, err = loader.LoadBuiltinRules()
		if err != nil {
			return nil, err
		}
	}

	if include != "" || exclude != "" {
		config := rule.FilterConfig{
			Include: rule.ParsePatterns(include),
			Exclude: rule.ParsePatterns(exclude),
		}
		rules, err = rule.Filter(rules, config)
		if err != nil {
			return nil, fmt.Errorf("filtering rules: %w", err)
		}
	}

	return rules, nil
}

// lowercaseRuleKeywords returns a copy of rules with every Keywords entry
// lowercased (ASCII only). Used by --ignore-case, which folds case by
// normalizing both patterns and input before they reach the automaton
// rather than teaching the automaton a case-insensitive alphabet.
func lowercaseRuleKeywords(rules []*types.Rule) []*types.Rule {
	out := make([]*types.Rule, len(rules))
	for i, r := range rules {
		copied := *r
		if len(r.Keywords) > 0 {
			copied.Keywords = make([]string, len(r.Keywords))
			for j, kw := range r.Keywords {
				copied.Keywords[j] = strings.ToLower(kw)
			}
		}
		out[i] = &copied
	}
	return out
}

func outputFindings(cmd *cobra.Command, findings []*types.Finding) error {
	switch scanOutputFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(findings)
	default:
		if len(findings) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\nNo findings.\n")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nFindings:\n")
		for i, f := range findings {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. Rule: %s  Source: %s\n", i+1, f.RuleName, f.Source)
		}
		return nil
	}
}

// outputSARIF outputs findings in SARIF 2.1.0 format
func outputSARIF(cmd *cobra.Command, rules []*types.Rule, findings []*types.Finding) error {
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
	if err != nil {
		return fmt.Errorf("writing SARIF output: %w", err)
	}

	return nil
}
