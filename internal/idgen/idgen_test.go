package idgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequentialID(t *testing.T) {
	assert.Equal(t, 1, NextSequentialID(nil))
	assert.Equal(t, 6, NextSequentialID([]int{1, 2, 5, 3}))
}

func TestSplitID(t *testing.T) {
	prefix, suffix, ok := SplitID("demo-42")
	require.True(t, ok)
	assert.Equal(t, "demo", prefix)
	assert.Equal(t, "42", suffix)

	_, _, ok = SplitID("noseparator")
	assert.False(t, ok)
}

func TestParseDecimalSuffix(t *testing.T) {
	n, ok := ParseDecimalSuffix("42")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = ParseDecimalSuffix("a3f")
	assert.False(t, ok)
}

func TestGenerateUniqueHashID_Deterministic(t *testing.T) {
	ts := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	noExist := func(string) bool { return false }

	id1, err := GenerateUniqueHashID("demo", "Fix bug", "", "user", ts, 5, Base36, noExist)
	require.NoError(t, err)
	id2, err := GenerateUniqueHashID("demo", "Fix bug", "", "user", ts, 5, Base36, noExist)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestGenerateUniqueHashID_CollisionYieldsDistinctIDs(t *testing.T) {
	ts := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	exists := func(id string) bool { return seen[id] }

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := GenerateUniqueHashID("demo", "Same title", "Same desc", "user", ts, 1, Base36, exists)
		require.NoError(t, err)
		seen[id] = true
		ids = append(ids, id)
	}
	assert.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, ids[1], ids[2])
}

func TestGenerateUniqueHashID_Exhausted(t *testing.T) {
	ts := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	alwaysExists := func(string) bool { return true }

	_, err := GenerateUniqueHashID("demo", "t", "d", "user", ts, 1, Base36, alwaysExists)
	require.Error(t, err)
}
