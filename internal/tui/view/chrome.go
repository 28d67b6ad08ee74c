package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/lemmy-cli/internal/tui/theme"
)

func Toolbar(inComments bool) string {
	if inComments {
		return "j/k move | u/d vote | s save | space collapse | r reload | esc back | ? help"
	}
	return "j/k move | enter comments | u/d vote | s save | r refresh | n more | ? help"
}

func CompactFooter(mode, feedID string, page, shown int, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(mode),
		th.MetaLabel.Render("feed") + " " + th.MetaValue.Render(feedID),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d", page)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
	}
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func HelpLines() []string {
	return []string{
		"Navigation:",
		"  j/k or arrows move, g/G jump top/bottom, pgup/pgdown jump page",
		"Feed:",
		"  enter opens comments, r refreshes, n loads the next page",
		"  scrolling near the end loads the next page as well",
		"Comments:",
		"  space collapses or expands a thread, esc returns to the feed",
		"Actions:",
		"  u upvote, d downvote (press again to clear), s save or unsave",
	}
}
