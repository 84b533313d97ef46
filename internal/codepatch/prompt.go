package codepatch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Confirm shows the matched references grouped by file and asks the user
// whether to replace oldID with newID throughout.
func Confirm(oldID, newID string, refs *References) (bool, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d reference(s) to %s in code:\n\n", refs.TotalMatches, oldID)
	for _, file := range refs.Files() {
		fmt.Fprintf(&b, "  %s:\n", file)
		for _, m := range refs.Matches[file] {
			fmt.Fprintf(&b, "    %d: %s\n", m.Line, strings.TrimSpace(m.Content))
		}
	}

	confirmed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Replace all occurrences of %s with %s in these files?", oldID, newID)).
				Description(b.String()).
				Affirmative("Replace").
				Negative("Skip").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}
