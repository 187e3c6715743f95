package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pombredanne/multifast/pkg/types"
)

func TestValidateRule_ValidWithPattern(t *testing.T) {
	rule := &types.Rule{
		ID:      "np.test.1",
		Name:    "Test Rule",
		Pattern: "test.*pattern",
	}
	rule.StructuralID = rule.ComputeStructuralID()

	assert.NoError(t, ValidateRule(rule))
}

func TestValidateRule_ValidWithKeywordsOnly(t *testing.T) {
	rule := &types.Rule{
		ID:       "np.test.1",
		Name:     "Test Rule",
		Keywords: []string{"secret"},
	}

	assert.NoError(t, ValidateRule(rule))
}

func TestValidateRule_NilRule(t *testing.T) {
	err := ValidateRule(nil)
	assert.ErrorContains(t, err, "nil")
}

func TestValidateRule_MissingID(t *testing.T) {
	rule := &types.Rule{Name: "Test Rule", Pattern: "test.*pattern"}
	assert.ErrorContains(t, ValidateRule(rule), "ID")
}

func TestValidateRule_MissingName(t *testing.T) {
	rule := &types.Rule{ID: "np.test.1", Pattern: "test.*pattern"}
	assert.ErrorContains(t, ValidateRule(rule), "name")
}

func TestValidateRule_MissingKeywordsAndPattern(t *testing.T) {
	rule := &types.Rule{ID: "np.test.1", Name: "Test Rule"}
	err := ValidateRule(rule)
	assert.ErrorContains(t, err, "keyword")
}

func TestValidateRule_InvalidPattern(t *testing.T) {
	rule := &types.Rule{ID: "np.test.1", Name: "Test Rule", Pattern: "[invalid(regex"}
	assert.ErrorContains(t, ValidateRule(rule), "pattern")
}

func TestValidateRule_InconsistentStructuralID(t *testing.T) {
	rule := &types.Rule{
		ID:           "np.test.1",
		Name:         "Test Rule",
		Pattern:      "test.*pattern",
		StructuralID: "wrong_id",
	}
	assert.ErrorContains(t, ValidateRule(rule), "StructuralID")
}

func TestValidateRule_EmptyStructuralID(t *testing.T) {
	rule := &types.Rule{ID: "np.test.1", Name: "Test Rule", Pattern: "test.*pattern"}
	assert.NoError(t, ValidateRule(rule))
}

func TestValidateRuleset_Valid(t *testing.T) {
	ruleset := &types.Ruleset{ID: "rs.test", Name: "Test Ruleset", RuleIDs: []string{"np.test.1", "np.test.2"}}
	knownRules := map[string]bool{"np.test.1": true, "np.test.2": true}

	assert.NoError(t, ValidateRuleset(ruleset, knownRules))
}

func TestValidateRuleset_NilRuleset(t *testing.T) {
	assert.ErrorContains(t, ValidateRuleset(nil, nil), "nil")
}

func TestValidateRuleset_MissingID(t *testing.T) {
	ruleset := &types.Ruleset{Name: "Test Ruleset", RuleIDs: []string{"np.test.1"}}
	assert.ErrorContains(t, ValidateRuleset(ruleset, nil), "ID")
}

func TestValidateRuleset_MissingName(t *testing.T) {
	ruleset := &types.Ruleset{ID: "rs.test", RuleIDs: []string{"np.test.1"}}
	assert.ErrorContains(t, ValidateRuleset(ruleset, nil), "name")
}

func TestValidateRuleset_EmptyRuleIDs(t *testing.T) {
	ruleset := &types.Ruleset{ID: "rs.test", Name: "Test Ruleset", RuleIDs: []string{}}
	assert.ErrorContains(t, ValidateRuleset(ruleset, nil), "rule")
}

func TestValidateRuleset_UnknownRuleID(t *testing.T) {
	ruleset := &types.Ruleset{ID: "rs.test", Name: "Test Ruleset", RuleIDs: []string{"np.test.1", "np.unknown"}}
	knownRules := map[string]bool{"np.test.1": true}

	assert.ErrorContains(t, ValidateRuleset(ruleset, knownRules), "unknown")
}

func TestValidateRuleset_NilKnownRules(t *testing.T) {
	ruleset := &types.Ruleset{ID: "rs.test", Name: "Test Ruleset", RuleIDs: []string{"np.test.1", "np.unknown"}}
	assert.NoError(t, ValidateRuleset(ruleset, nil))
}

func TestValidateRuleset_DuplicateRuleIDs(t *testing.T) {
	ruleset := &types.Ruleset{ID: "rs.test", Name: "Test Ruleset", RuleIDs: []string{"np.test.1", "np.test.2", "np.test.1"}}
	knownRules := map[string]bool{"np.test.1": true, "np.test.2": true}

	assert.ErrorContains(t, ValidateRuleset(ruleset, knownRules), "duplicate")
}

func TestValidateRuleset_AllRulesValid(t *testing.T) {
	ruleset := &types.Ruleset{ID: "rs.test", Name: "Test Ruleset", RuleIDs: []string{"np.test.1", "np.test.2", "np.test.3"}}
	knownRules := map[string]bool{"np.test.1": true, "np.test.2": true, "np.test.3": true}

	assert.NoError(t, ValidateRuleset(ruleset, knownRules))
}

func TestValidateRule_ComplexPattern(t *testing.T) {
	rule := &types.Rule{ID: "np.aws.1", Name: "AWS API Key", Pattern: `AKIA[A-Z0-9]{16}`}
	assert.NoError(t, ValidateRule(rule))
}

func TestValidateRule_WithAllFields(t *testing.T) {
	rule := &types.Rule{
		ID:          "np.test.1",
		Name:        "Test Rule",
		Keywords:    []string{"test"},
		Pattern:     "test.*pattern",
		Replacement: "[REDACTED]",
		Description: "Test description",
		References:  []string{"https://example.com"},
		Categories:  []string{"test", "example"},
	}
	rule.StructuralID = rule.ComputeStructuralID()

	assert.NoError(t, ValidateRule(rule))
}
