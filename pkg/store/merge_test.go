package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/multifast/pkg/types"
)

func TestMerge_EmptySources(t *testing.T) {
	_, err := Merge(MergeConfig{
		SourcePaths: []string{},
		DestPath:    "/tmp/dest.db",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no source databases")
}

func TestMerge_NoDestination(t *testing.T) {
	_, err := Merge(MergeConfig{
		SourcePaths: []string{"/tmp/source.db"},
		DestPath:    "",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "destination path is required")
}

func TestMerge_SingleSource(t *testing.T) {
	tmpDir := t.TempDir()

	sourcePath := filepath.Join(tmpDir, "source.db")
	source, err := NewSQLite(sourcePath)
	require.NoError(t, err)

	finding := &types.Finding{RuleID: "np.test.1", RuleName: "Test Rule", StructuralID: "finding1"}
	err = source.AddFinding(finding)
	require.NoError(t, err)
	source.Close()

	destPath := filepath.Join(tmpDir, "dest.db")
	stats, err := Merge(MergeConfig{
		SourcePaths: []string{sourcePath},
		DestPath:    destPath,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FindingsMerged)
	assert.Equal(t, 1, stats.SourcesProcessed)

	dest, err := NewSQLite(destPath)
	require.NoError(t, err)
	defer dest.Close()

	exists, err := dest.FindingExists("finding1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMerge_MultipleSources(t *testing.T) {
	tmpDir := t.TempDir()

	source1Path := filepath.Join(tmpDir, "source1.db")
	source1, err := NewSQLite(source1Path)
	require.NoError(t, err)
	err = source1.AddFinding(&types.Finding{StructuralID: "finding1", RuleID: "rule1", RuleName: "Rule 1"})
	require.NoError(t, err)
	source1.Close()

	source2Path := filepath.Join(tmpDir, "source2.db")
	source2, err := NewSQLite(source2Path)
	require.NoError(t, err)
	err = source2.AddFinding(&types.Finding{StructuralID: "finding2", RuleID: "rule2", RuleName: "Rule 2"})
	require.NoError(t, err)
	source2.Close()

	destPath := filepath.Join(tmpDir, "merged.db")
	stats, err := Merge(MergeConfig{
		SourcePaths: []string{source1Path, source2Path},
		DestPath:    destPath,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FindingsMerged)
	assert.Equal(t, 2, stats.SourcesProcessed)

	dest, err := NewSQLite(destPath)
	require.NoError(t, err)
	defer dest.Close()

	exists1, err := dest.FindingExists("finding1")
	require.NoError(t, err)
	assert.True(t, exists1)

	exists2, err := dest.FindingExists("finding2")
	require.NoError(t, err)
	assert.True(t, exists2)
}

func TestMerge_Deduplication(t *testing.T) {
	tmpDir := t.TempDir()

	source1Path := filepath.Join(tmpDir, "source1.db")
	source1, err := NewSQLite(source1Path)
	require.NoError(t, err)
	err = source1.AddFinding(&types.Finding{StructuralID: "duplicate-finding", RuleID: "rule1", RuleName: "Rule 1"})
	require.NoError(t, err)
	source1.Close()

	source2Path := filepath.Join(tmpDir, "source2.db")
	source2, err := NewSQLite(source2Path)
	require.NoError(t, err)
	err = source2.AddFinding(&types.Finding{StructuralID: "duplicate-finding", RuleID: "rule1", RuleName: "Rule 1"})
	require.NoError(t, err)
	source2.Close()

	destPath := filepath.Join(tmpDir, "merged.db")
	stats, err := Merge(MergeConfig{
		SourcePaths: []string{source1Path, source2Path},
		DestPath:    destPath,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FindingsMerged, "should only merge 1 unique finding")
	assert.Equal(t, 2, stats.SourcesProcessed)
}
