package explore

import (
	"sort"

	"github.com/pombredanne/multifast/pkg/types"
)

// facetID identifies a facet category.
type facetID int

const (
	facetRuleName facetID = iota
	facetSource
)

// facetDef defines a facet category.
type facetDef struct {
	ID    facetID
	Label string
}

var facetDefs = []facetDef{
	{facetRuleName, "Rule Name"},
	{facetSource, "Source"},
}

// facetValue is a single selectable value within a facet.
type facetValue struct {
	FacetID  facetID
	Value    string
	Count    int
	Selected bool
}

// facetState holds the complete filter state.
type facetState struct {
	Values map[facetID][]*facetValue
}

func newFacetState() *facetState {
	return &facetState{
		Values: make(map[facetID][]*facetValue),
	}
}

// buildFacets builds facet values from findings data.
func buildFacets(findings []*findingRow) *facetState {
	fs := newFacetState()

	ruleNames := make(map[string]int)
	sources := make(map[string]int)

	for _, f := range findings {
		ruleNames[f.RuleName]++
		source := f.Source
		if source == "" {
			source = "-"
		}
		sources[source]++
	}

	fs.Values[facetRuleName] = mapToFacetValues(facetRuleName, ruleNames)
	fs.Values[facetSource] = mapToFacetValues(facetSource, sources)

	return fs
}

func mapToFacetValues(id facetID, counts map[string]int) []*facetValue {
	values := make([]*facetValue, 0, len(counts))
	for v, c := range counts {
		values = append(values, &facetValue{FacetID: id, Value: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].Value < values[j].Value
	})
	return values
}

// selectedValues returns the set of selected values for a facet.
func (fs *facetState) selectedValues(id facetID) map[string]bool {
	selected := make(map[string]bool)
	for _, v := range fs.Values[id] {
		if v.Selected {
			selected[v.Value] = true
		}
	}
	return selected
}

// hasActiveFilters returns true if any facet has selections.
func (fs *facetState) hasActiveFilters() bool {
	for _, values := range fs.Values {
		for _, v := range values {
			if v.Selected {
				return true
			}
		}
	}
	return false
}

// resetAll deselects all facet values.
func (fs *facetState) resetAll() {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Selected = false
		}
	}
}

// matchesFinding returns true if a finding passes all active filters.
// Within a facet: OR (union). Across facets: AND (intersection).
func (fs *facetState) matchesFinding(f *findingRow) bool {
	for _, def := range facetDefs {
		selected := fs.selectedValues(def.ID)
		if len(selected) == 0 {
			continue
		}

		switch def.ID {
		case facetRuleName:
			if !selected[f.RuleName] {
				return false
			}
		case facetSource:
			source := f.Source
			if source == "" {
				source = "-"
			}
			if !selected[source] {
				return false
			}
		}
	}
	return true
}

// updateCounts recounts facet values based on currently visible findings.
func (fs *facetState) updateCounts(findings []*findingRow) {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Count = 0
		}
	}

	for _, f := range findings {
		if !fs.matchesFinding(f) {
			continue
		}
		for _, v := range fs.Values[facetRuleName] {
			if v.Value == f.RuleName {
				v.Count++
			}
		}
		source := f.Source
		if source == "" {
			source = "-"
		}
		for _, v := range fs.Values[facetSource] {
			if v.Value == source {
				v.Count++
			}
		}
	}
}

// findingRow is the denormalized view model for a finding in the TUI.
type findingRow struct {
	StructuralID string
	RuleID       string
	RuleName     string
	Source       string
	Location     types.Location
	Snippet      types.Snippet
}
