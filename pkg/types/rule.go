package types

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Rule is a detection rule: a set of literal keywords that feed the
// keyword-filter automaton, plus an optional secondary regular expression
// that narrows keyword hits down to real matches, and an optional
// Replacement for redact mode.
type Rule struct {
	ID           string   // e.g., "multifast.aws-key"
	Name         string   // human-readable name
	Description  string   // optional
	Keywords     []string // literal substrings fed to the keyword-filter automaton
	Pattern      string   // optional secondary regular expression (regexp2 syntax)
	Replacement  string   // redact-mode substitution; empty string deletes the match
	Categories   []string // classification tags
	References   []string // documentation URLs
	StructuralID string   // SHA-1 of keywords+pattern (computed)
}

// ComputeStructuralID computes a SHA-1 over the rule's keywords and
// pattern, joined by null bytes, so two rules with the same detection
// logic but different metadata share an ID.
func (r *Rule) ComputeStructuralID() string {
	h := sha1.New()
	h.Write([]byte(strings.Join(r.Keywords, "\x00")))
	h.Write([]byte{0})
	h.Write([]byte(r.Pattern))
	return hex.EncodeToString(h.Sum(nil))
}

// Ruleset groups rules together under a single ID for selection by the
// CLI's --ruleset flag.
type Ruleset struct {
	ID          string
	Name        string
	Description string
	RuleIDs     []string
}
