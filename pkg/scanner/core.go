package scanner

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/pombredanne/multifast/pkg/ahocorasick"
	"github.com/pombredanne/multifast/pkg/prefilter"
	"github.com/pombredanne/multifast/pkg/rule"
	"github.com/pombredanne/multifast/pkg/store"
	"github.com/pombredanne/multifast/pkg/types"
)

var (
	// cachedBuiltinRules holds builtin rules loaded once per process
	cachedBuiltinRules []*types.Rule
	cachedRulesErr     error
	cacheOnce          sync.Once
)

// loadBuiltinRulesCached loads builtin rules once and caches them
func loadBuiltinRulesCached() ([]*types.Rule, error) {
	cacheOnce.Do(func() {
		loader := rule.NewLoader()
		cachedBuiltinRules, cachedRulesErr = loader.LoadBuiltinRules()
	})
	return cachedBuiltinRules, cachedRulesErr
}

// snippetContextBytes is how far before/after a match the stored snippet
// reaches, clamped to content bounds.
const snippetContextBytes = 40

// secondaryMatchTimeout bounds a single rule's regex evaluation so one
// pathological pattern can't stall a scan.
const secondaryMatchTimeout = 2 * time.Second

// Core wires a rule set through the prefilter, a per-rule regexp2 secondary
// stage for detection rules, and a shared ahocorasick automaton for literal
// redaction rules.
type Core struct {
	rules     []*types.Rule
	prefilter *prefilter.Prefilter
	patterns  map[string]*regexp2.Regexp // rule ID -> compiled secondary pattern
	redact    *ahocorasick.Automaton     // nil if no rule carries a Replacement
	store     store.Store
	logger    DebugLogger
}

// NewCore creates a new Core scanner with the given rules.
// rulesJSON can be:
//   - "" or "builtin" to load builtin rules (cached)
//   - a JSON array of types.Rule
func NewCore(rulesJSON string, logger DebugLogger) (*Core, error) {
	if logger == nil {
		logger = NoopLogger{}
	}

	logger.Log("NewCore starting...")

	var rules []*types.Rule
	if rulesJSON == "" || rulesJSON == "builtin" {
		logger.Log("Loading builtin rules (cached)...")
		var err error
		rules, err = loadBuiltinRulesCached()
		if err != nil {
			logger.Log("loadBuiltinRulesCached failed: %v", err)
			return nil, err
		}
		logger.Log("Loaded %d builtin rules", len(rules))
	} else {
		logger.Log("Parsing custom rules JSON...")
		if err := json.Unmarshal([]byte(rulesJSON), &rules); err != nil {
			logger.Log("JSON unmarshal failed: %v", err)
			return nil, err
		}
		logger.Log("Parsed %d custom rules", len(rules))
	}

	logger.Log("Building prefilter over %d rules...", len(rules))
	pf := prefilter.New(rules)

	patterns := make(map[string]*regexp2.Regexp)
	redact := ahocorasick.New()
	haveRedact := false

	for _, r := range rules {
		if r.Pattern != "" {
			re, err := regexp2.Compile(r.Pattern, regexp2.None)
			if err != nil {
				logger.Log("compiling pattern for rule %s failed: %v", r.ID, err)
				return nil, err
			}
			re.MatchTimeout = secondaryMatchTimeout
			patterns[r.ID] = re
			continue
		}
		for _, kw := range r.Keywords {
			status := redact.Add(&ahocorasick.Pattern{
				Key:            []byte(kw),
				Replacement:    []byte(r.Replacement),
				HasReplacement: true,
				Title:          r,
			}, true)
			if status == ahocorasick.StatusOK {
				haveRedact = true
			}
		}
	}

	var redactAutomaton *ahocorasick.Automaton
	if haveRedact {
		redact.Finalize()
		redactAutomaton = redact
	}

	logger.Log("Creating store...")
	s, err := store.New(store.Config{Path: ":memory:"})
	if err != nil {
		logger.Log("store.New failed: %v", err)
		return nil, err
	}

	logger.Log("NewCore complete")
	return &Core{
		rules:     rules,
		prefilter: pf,
		patterns:  patterns,
		redact:    redactAutomaton,
		store:     s,
		logger:    logger,
	}, nil
}

// Scan runs the detection pipeline over content and persists findings.
func (c *Core) Scan(content, source string) (*ScanResult, error) {
	findings, err := c.scan([]byte(content), source)
	if err != nil {
		return nil, err
	}
	for i := range findings {
		if err := c.store.AddFinding(&findings[i]); err != nil {
			c.logger.Log("store.AddFinding failed: %v", err)
		}
	}
	return &ScanResult{Source: source, Findings: findings}, nil
}

// ScanBatch scans multiple content items.
func (c *Core) ScanBatch(items []ContentItem) (*BatchScanResult, error) {
	var results []ScanResult
	total := 0

	for _, item := range items {
		findings, err := c.scan([]byte(item.Content), item.Source)
		if err != nil {
			c.logger.Log("scan of %s failed: %v", item.Source, err)
			continue
		}
		for i := range findings {
			if err := c.store.AddFinding(&findings[i]); err != nil {
				c.logger.Log("store.AddFinding failed: %v", err)
			}
		}
		results = append(results, ScanResult{Source: item.Source, Findings: findings})
		total += len(findings)
	}

	return &BatchScanResult{Results: results, Total: total}, nil
}

// scan runs the prefilter followed by the secondary regex stage for every
// surviving detection rule. Rules with no Pattern (literal-only, used only
// by Redact) never reach the secondary stage.
func (c *Core) scan(content []byte, source string) ([]types.Finding, error) {
	candidates := c.prefilter.Filter(content)
	text := string(content)

	var findings []types.Finding
	for _, r := range candidates {
		re, ok := c.patterns[r.ID]
		if !ok {
			continue
		}
		m, err := re.FindStringMatch(text)
		for m != nil && err == nil {
			findings = append(findings, buildFinding(r, content, source, m.Index, m.Index+m.Length))
			m, err = re.FindNextMatch(m)
		}
	}
	return findings, nil
}

func buildFinding(r *types.Rule, content []byte, source string, start, end int) types.Finding {
	startLine, startCol := types.ComputeLineColumn(content, start)
	endLine, endCol := types.ComputeLineColumn(content, end)

	beforeStart := start - snippetContextBytes
	if beforeStart < 0 {
		beforeStart = 0
	}
	afterEnd := end + snippetContextBytes
	if afterEnd > len(content) {
		afterEnd = len(content)
	}

	f := types.Finding{
		RuleID:   r.ID,
		RuleName: r.Name,
		Source:   source,
		Location: types.Location{
			Offset: types.OffsetSpan{Start: int64(start), End: int64(end)},
			Source: types.SourceSpan{
				Start: types.SourcePoint{Line: startLine, Column: startCol},
				End:   types.SourcePoint{Line: endLine, Column: endCol},
			},
		},
		Snippet: types.Snippet{
			Before:   content[beforeStart:start],
			Matching: content[start:end],
			After:    content[end:afterEnd],
		},
	}
	f.StructuralID = f.ComputeStructuralID(r.StructuralID)
	return f
}

// Redact runs every literal-keyword, Replacement-bearing rule against
// content through one shared ahocorasick automaton and returns the result.
// Rules with Pattern set (the Scan-only detection rules) never participate.
func (c *Core) Redact(content []byte) ([]byte, error) {
	if c.redact == nil {
		return content, nil
	}

	rs := ahocorasick.NewReplaceSession()
	var out []byte
	sink := func(b []byte) { out = append(out, b...) }

	if err := c.redact.Replace(rs, content, ahocorasick.ModeNormal, sink); err != nil {
		return nil, err
	}
	c.redact.Flush(rs, sink)
	return out, nil
}

// WriteDebug dumps the prefilter's keyword automaton in human-readable
// form. Returns without writing anything if no rule carries keywords.
func (c *Core) WriteDebug(w io.Writer) error {
	a := c.prefilter.Automaton()
	if a == nil {
		return nil
	}
	return a.WriteDebug(w)
}

// Close releases scanner resources.
func (c *Core) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// GetBuiltinRules returns the built-in rules (cached).
func GetBuiltinRules() ([]*types.Rule, error) {
	return loadBuiltinRulesCached()
}
