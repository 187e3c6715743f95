package prefilter

import (
	"github.com/pombredanne/multifast/pkg/ahocorasick"
	"github.com/pombredanne/multifast/pkg/types"
)

// Prefilter uses the package's own Aho-Corasick automaton for efficient
// keyword matching, cutting the set of rules a scan needs to run its
// (potentially expensive) secondary regex stage against down to only
// those whose keywords actually appear in the content.
type Prefilter struct {
	automaton      *ahocorasick.Automaton
	keywordRules   map[string][]*types.Rule // keyword -> rules needing it
	noKeywordRules []*types.Rule            // rules without keywords (always checked)
}

// New builds a Prefilter from rules.
func New(rules []*types.Rule) *Prefilter {
	pf := &Prefilter{
		keywordRules: make(map[string][]*types.Rule),
	}

	seen := make(map[string]bool)
	a := ahocorasick.New()
	for _, r := range rules {
		if len(r.Keywords) == 0 {
			pf.noKeywordRules = append(pf.noKeywordRules, r)
			continue
		}
		for _, keyword := range r.Keywords {
			pf.keywordRules[keyword] = append(pf.keywordRules[keyword], r)
			if !seen[keyword] {
				seen[keyword] = true
				a.Add(&ahocorasick.Pattern{Key: []byte(keyword), Title: keyword}, true)
			}
		}
	}

	if len(seen) > 0 {
		a.Finalize()
		pf.automaton = a
	}

	return pf
}

// Automaton returns the underlying keyword automaton, or nil if no rule
// carries any keywords. Exposed for -v/verbose trie dumps.
func (pf *Prefilter) Automaton() *ahocorasick.Automaton {
	return pf.automaton
}

// Filter returns rules that might match content: rules with no keywords
// (always checked) plus rules whose keyword was actually found.
func (pf *Prefilter) Filter(content []byte) []*types.Rule {
	result := make([]*types.Rule, 0, len(pf.noKeywordRules))
	seenRules := make(map[*types.Rule]bool, len(pf.noKeywordRules))
	for _, r := range pf.noKeywordRules {
		seenRules[r] = true
		result = append(result, r)
	}

	if pf.automaton == nil {
		return result
	}

	cur := ahocorasick.NewCursor()
	pf.automaton.Search(cur, content, false, func(m *ahocorasick.Match) bool {
		for _, p := range m.Patterns {
			keyword, _ := p.Title.(string)
			for _, r := range pf.keywordRules[keyword] {
				if !seenRules[r] {
					seenRules[r] = true
					result = append(result, r)
				}
			}
		}
		return false
	})

	return result
}
