package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleComputeStructuralID(t *testing.T) {
	r1 := &Rule{Keywords: []string{"aws", "secret"}, Pattern: "AKIA[0-9A-Z]{16}"}
	r2 := &Rule{Keywords: []string{"aws", "secret"}, Pattern: "AKIA[0-9A-Z]{16}"}
	assert.Equal(t, r1.ComputeStructuralID(), r2.ComputeStructuralID())

	r3 := &Rule{Keywords: []string{"aws", "secret"}, Pattern: "different"}
	assert.NotEqual(t, r1.ComputeStructuralID(), r3.ComputeStructuralID())
}

func TestRuleComputeStructuralIDIgnoresMetadata(t *testing.T) {
	r1 := &Rule{ID: "a", Name: "A", Keywords: []string{"x"}}
	r2 := &Rule{ID: "b", Name: "B", Keywords: []string{"x"}}
	assert.Equal(t, r1.ComputeStructuralID(), r2.ComputeStructuralID())
}
