package explore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pombredanne/multifast/pkg/rule"
	"github.com/pombredanne/multifast/pkg/store"
	"github.com/pombredanne/multifast/pkg/types"
)

// exploreData holds all loaded data for the TUI.
type exploreData struct {
	store    store.Store
	ruleMap  map[string]*types.Rule
	findings []*findingRow
}

// loadData opens a findings store and loads every finding into view rows.
// storePath can be a directory (a "findings.db" is appended) or a direct
// SQLite/Postgres DSN path.
func loadData(storePath string) (*exploreData, error) {
	info, err := os.Stat(storePath)
	if err == nil && info.IsDir() {
		storePath = filepath.Join(storePath, "findings.db")
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	loader := rule.NewLoader()
	rules, err := loader.LoadBuiltinRules()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	ruleMap := make(map[string]*types.Rule)
	for _, r := range rules {
		ruleMap[r.ID] = r
	}

	findings, err := s.GetFindings()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("retrieving findings: %w", err)
	}

	rows := make([]*findingRow, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, buildFindingRow(f, ruleMap))
	}

	return &exploreData{
		store:    s,
		ruleMap:  ruleMap,
		findings: rows,
	}, nil
}

// buildFindingRow creates a findingRow from a Finding.
func buildFindingRow(f *types.Finding, ruleMap map[string]*types.Rule) *findingRow {
	row := &findingRow{
		StructuralID: f.StructuralID,
		RuleID:       f.RuleID,
		RuleName:     f.RuleName,
		Source:       f.Source,
		Location:     f.Location,
		Snippet:      f.Snippet,
	}
	if r, ok := ruleMap[f.RuleID]; ok && row.RuleName == "" {
		row.RuleName = r.Name
	}
	return row
}

// close closes the underlying store.
func (d *exploreData) close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
