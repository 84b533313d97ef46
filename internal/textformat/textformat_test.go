package textformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textbeads/textbeads/internal/types"
)

func TestRoundTrip(t *testing.T) {
	issue := types.New("demo-1", "Test Issue", 2, types.TypeTask)
	issue.Description = "Test description"
	issue.DependsOn["demo-2"] = types.DepBlocks

	doc, err := ToMarkdown(issue)
	require.NoError(t, err)

	got, err := FromMarkdown("demo-1", doc)
	require.NoError(t, err)

	assert.Equal(t, issue.ID, got.ID)
	assert.Equal(t, issue.Title, got.Title)
	assert.Equal(t, issue.Description, got.Description)
	assert.Equal(t, issue.DependsOn, got.DependsOn)
	assert.WithinDuration(t, issue.CreatedAt, got.CreatedAt, 0)
}

func TestSanitizeHeaders(t *testing.T) {
	content := "# This is a header\nNormal text\n## This is h2"
	sanitized := sanitize(content)
	assert.True(t, len(sanitized) > 0 && sanitized[:13] == "## This is a ")
}

func TestTitleWithSpecialChars(t *testing.T) {
	cases := []string{
		"Simple title",
		"Title: with colon",
		"Entity not found: 0",
		`Title with 'single quotes'`,
		`Title with "double quotes"`,
		"Title with #hash",
		"Multiple: colons: here",
	}
	for _, title := range cases {
		issue := types.New("test-1", title, 2, types.TypeBug)
		issue.Description = "Test"

		doc, err := ToMarkdown(issue)
		require.NoError(t, err)

		got, err := FromMarkdown("test-1", doc)
		require.NoError(t, err, "title %q", title)
		assert.Equal(t, title, got.Title)
	}
}

func TestFromMarkdown_MissingFrontmatterReportsMissingKeys(t *testing.T) {
	doc := "---\ntitle: Oops\n---\n"
	_, err := FromMarkdown("demo-1", doc)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.MissingKeys, "status")
	assert.Contains(t, parseErr.Error(), "demo-1")
}
