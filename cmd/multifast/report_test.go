package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pombredanne/multifast/pkg/store"
	"github.com/pombredanne/multifast/pkg/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newReportCmd creates a fresh report command for testing
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "report",
		RunE: runReport,
	}
	cmd.Flags().StringVar(&reportDatastore, "datastore", "findings.db", "Path to datastore directory or file")
	cmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	cmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	return cmd
}

func TestReportCommand_HumanFormat(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := store.New(store.Config{Path: dbPath})
	require.NoError(t, err)

	require.NoError(t, s.AddFinding(&types.Finding{StructuralID: "f1", RuleID: "multifast.aws-key", RuleName: "AWS API Key", Source: "a.go"}))
	require.NoError(t, s.AddFinding(&types.Finding{StructuralID: "f2", RuleID: "multifast.github-token", RuleName: "GitHub Token", Source: "b.go"}))
	require.NoError(t, s.Close())

	var stdout bytes.Buffer
	cmd := newReportCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--format", "human", "--color", "never"})

	err = cmd.Execute()
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "Finding 1/2")
	assert.Contains(t, output, "AWS API Key")
	assert.Contains(t, output, "GitHub Token")
	assert.Contains(t, output, "a.go")
	assert.Contains(t, output, "b.go")
}

func TestReportCommand_JSONFormat(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := store.New(store.Config{Path: dbPath})
	require.NoError(t, err)

	require.NoError(t, s.AddFinding(&types.Finding{StructuralID: "f1", RuleID: "multifast.aws-key", RuleName: "AWS API Key"}))
	require.NoError(t, s.Close())

	var stdout bytes.Buffer
	cmd := newReportCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--format", "json"})

	err = cmd.Execute()
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, `"StructuralID"`)
	assert.Contains(t, output, `"RuleID"`)
	assert.Contains(t, output, "multifast.aws-key")
}

func TestReportCommand_SARIFFormat(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := store.New(store.Config{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var stdout bytes.Buffer
	cmd := newReportCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--format", "sarif"})

	err = cmd.Execute()
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, `"version": "2.1.0"`)
}

func TestReportCommand_EmptyDatastore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "empty.db")

	s, err := store.New(store.Config{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var stdout bytes.Buffer
	cmd := newReportCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"--datastore", dbPath, "--format", "human"})

	err = cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "", stdout.String())
}

func TestReportCommand_NonexistentDatastore(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd := newReportCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--datastore", "/nonexistent/path.db"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "datastore not found")
}
