package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	valid := []Status{StatusOpen, StatusInProgress, StatusBlocked, StatusClosed}
	for _, s := range valid {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParsePriority(t *testing.T) {
	cases := map[string]int{"0": 0, "P2": 2, "p4": 4, "  1 ": 1}
	for in, want := range cases {
		got, err := ParsePriority(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePriority("5")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ParsePriority("nope")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestIssue_IsReady(t *testing.T) {
	i := New("demo-1", "Fix login bug", 2, TypeBug)
	assert.True(t, i.IsReady())

	i.DependsOn["demo-2"] = DepBlocks
	assert.False(t, i.IsReady())

	i.Status = StatusClosed
	delete(i.DependsOn, "demo-2")
	assert.False(t, i.IsReady())
}

func TestIssue_JSONRoundTrip_ArrayForm(t *testing.T) {
	i := New("demo-1", "Fix login bug", 2, TypeBug)
	i.DependsOn["demo-2"] = DepBlocks
	i.DependsOn["demo-3"] = DepRelated

	data, err := json.Marshal(i)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dependencies":[`)

	var got Issue
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, i.DependsOn, got.DependsOn)
	assert.Equal(t, i.ID, got.ID)
}

func TestIssue_JSONRoundTrip_LegacyMapForm(t *testing.T) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	legacy := `{"id":"demo-1","title":"t","status":"open","priority":1,"issue_type":"task",` +
		`"assignee":"","dependencies":{"demo-2":"blocks"},"created_at":"` + now + `","updated_at":"` + now + `"}`

	var got Issue
	require.NoError(t, json.Unmarshal([]byte(legacy), &got))
	assert.Equal(t, DependencyMap{"demo-2": DepBlocks}, got.DependsOn)
}
