package ahocorasick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) *Automaton {
	a := New()
	for _, k := range []string{"he", "she", "his", "hers"} {
		require.Equal(t, StatusOK, a.Add(&Pattern{Key: []byte(k)}, true))
	}
	a.Finalize()
	return a
}

func keysOf(m *Match) []string {
	out := make([]string, 0, len(m.Patterns))
	for _, p := range m.Patterns {
		out = append(out, string(p.Key))
	}
	return out
}

func TestSearchErrorsWhenNotFinalized(t *testing.T) {
	a := New()
	_, _, err := a.Search(NewCursor(), []byte("x"), false, func(*Match) bool { return false })
	assert.ErrorIs(t, err, ErrOpen)
}

func TestSearchFindsAllOverlappingMatches(t *testing.T) {
	a := buildSample(t)

	var got []struct {
		pos  int
		keys []string
	}
	cur := NewCursor()
	_, stopped, err := a.Search(cur, []byte("ushers"), false, func(m *Match) bool {
		got = append(got, struct {
			pos  int
			keys []string
		}{m.Position, keysOf(m)})
		return false
	})
	require.NoError(t, err)
	assert.False(t, stopped)

	// "ushers" contains "she" ending at 4 and "hers" ending at 6, plus
	// "he" ending at 4 via the failure chain.
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].pos)
	assert.ElementsMatch(t, []string{"she", "he"}, got[0].keys)
	assert.Equal(t, 6, got[1].pos)
	assert.Equal(t, []string{"hers"}, got[1].keys)
}

func TestSearchStopsAndResumes(t *testing.T) {
	a := buildSample(t)
	cur := NewCursor()

	var positions []int
	consumed, stopped, err := a.Search(cur, []byte("ushers"), false, func(m *Match) bool {
		positions = append(positions, m.Position)
		return true // stop at the first match
	})
	require.NoError(t, err)
	assert.True(t, stopped)
	require.Len(t, positions, 1)
	assert.Equal(t, 4, positions[0])
	assert.Equal(t, 4, consumed)

	// Resuming from the remaining bytes must still find the second match,
	// at its correct absolute position.
	consumed2, stopped2, err := a.Search(cur, []byte("ushers")[consumed:], true, func(m *Match) bool {
		positions = append(positions, m.Position)
		return false
	})
	require.NoError(t, err)
	assert.False(t, stopped2)
	assert.Equal(t, 2, consumed2)
	require.Len(t, positions, 2)
	assert.Equal(t, 6, positions[1])
}

func TestSearchChunkingIsInvariantToSplitPoint(t *testing.T) {
	a := buildSample(t)
	text := []byte("ushers")

	oneShot := collectPositions(t, a, [][]byte{text})
	split := collectPositions(t, a, [][]byte{text[:3], text[3:]})
	assert.Equal(t, oneShot, split)

	everyByte := make([][]byte, len(text))
	for i, b := range text {
		everyByte[i] = []byte{b}
	}
	byByte := collectPositions(t, a, everyByte)
	assert.Equal(t, oneShot, byByte)
}

func collectPositions(t *testing.T, a *Automaton, chunks [][]byte) []int {
	t.Helper()
	cur := NewCursor()
	var positions []int
	for i, c := range chunks {
		_, _, err := a.Search(cur, c, i > 0, func(m *Match) bool {
			positions = append(positions, m.Position)
			return false
		})
		require.NoError(t, err)
	}
	return positions
}

func TestSetTextAndFindNext(t *testing.T) {
	a := buildSample(t)
	cur := NewCursor()

	a.SetText(cur, []byte("ushers"), false)

	m, ok := a.FindNext(cur)
	require.True(t, ok)
	assert.Equal(t, 4, m.Position)

	m, ok = a.FindNext(cur)
	require.True(t, ok)
	assert.Equal(t, 6, m.Position)

	_, ok = a.FindNext(cur)
	assert.False(t, ok)
}

func TestFindNextAcrossMultipleSetTextCalls(t *testing.T) {
	a := buildSample(t)
	cur := NewCursor()

	a.SetText(cur, []byte("us"), false)
	_, ok := a.FindNext(cur)
	assert.False(t, ok)

	a.SetText(cur, []byte("hers"), true)
	m, ok := a.FindNext(cur)
	require.True(t, ok)
	assert.Equal(t, 6, m.Position)
}

func TestKeepFalseResetsCursor(t *testing.T) {
	a := buildSample(t)
	cur := NewCursor()

	_, _, err := a.Search(cur, []byte("she"), false, func(*Match) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, 3, cur.Position())

	_, _, err = a.Search(cur, []byte("he"), false, func(*Match) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, 2, cur.Position())
}
