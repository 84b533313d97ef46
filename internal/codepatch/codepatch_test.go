package codepatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGrepLine(t *testing.T) {
	file, line, content, ok := parseGrepLine("cmd/bd/main.go:42:fmt.Println(\"demo-7\")")
	assert.True(t, ok)
	assert.Equal(t, "cmd/bd/main.go", file)
	assert.Equal(t, 42, line)
	assert.Equal(t, `fmt.Println("demo-7")`, content)
}

func TestParseGrepLine_RejectsMalformed(t *testing.T) {
	_, _, _, ok := parseGrepLine("no colons here")
	assert.False(t, ok)
}

func TestReferences_FilesReturnsSortedPaths(t *testing.T) {
	refs := &References{
		Matches: map[string][]Match{
			"b.go": {{Line: 1, Content: "x"}},
			"a.go": {{Line: 2, Content: "y"}, {Line: 3, Content: "z"}},
		},
		TotalMatches: 3,
	}
	assert.Equal(t, []string{"a.go", "b.go"}, refs.Files())
}
