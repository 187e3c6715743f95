package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Finding is a single detection result: one rule matching once at one
// position in one scanned input.
type Finding struct {
	RuleID       string
	RuleName     string
	Source       string // caller-supplied identifier for the scanned input, e.g. a file path
	StructuralID string // SHA-1(rule_structural_id + '\0' + start + '\0' + end), content-based dedup ID
	Location     Location
	Snippet      Snippet
}

// ComputeStructuralID computes a content-based unique ID so the same
// finding re-reported across scans of the same input collapses to one
// entry in a Store.
func (f *Finding) ComputeStructuralID(ruleStructuralID string) string {
	h := sha1.New()
	h.Write([]byte(ruleStructuralID))
	h.Write([]byte{0})
	h.Write([]byte(fmt.Sprintf("%d", f.Location.Offset.Start)))
	h.Write([]byte{0})
	h.Write([]byte(fmt.Sprintf("%d", f.Location.Offset.End)))
	return hex.EncodeToString(h.Sum(nil))
}
