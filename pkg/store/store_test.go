package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/multifast/pkg/types"
)

func TestNew_MemoryStore(t *testing.T) {
	store, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}

func TestNew_DefaultsToMemory(t *testing.T) {
	store, err := New(Config{})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}

func TestNew_SQLiteStore(t *testing.T) {
	dir := t.TempDir()
	store, err := New(Config{Path: dir + "/test.db"})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*SQLiteStore)
	assert.True(t, ok)
}

func TestStore_Interface(t *testing.T) {
	var _ Store = (*SQLiteStore)(nil)
	var _ Store = (*MemoryStore)(nil)
	var _ Store = (*PostgresStore)(nil)
}

func TestStore_E2E(t *testing.T) {
	st, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer st.Close()

	finding := &types.Finding{
		RuleID:       "np.test.1",
		RuleName:     "Test Rule",
		Source:       "/tmp/secret.txt",
		StructuralID: "finding123",
		Location: types.Location{
			Offset: types.OffsetSpan{Start: 0, End: 6},
		},
		Snippet: types.Snippet{Matching: []byte("secret")},
	}
	err = st.AddFinding(finding)
	require.NoError(t, err)

	findings, err := st.GetFindings()
	require.NoError(t, err)
	assert.Len(t, findings, 1)
	assert.Equal(t, "finding123", findings[0].StructuralID)

	exists, err := st.FindingExists("finding123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = st.FindingExists("nonexistent")
	require.NoError(t, err)
	assert.False(t, exists)
}
