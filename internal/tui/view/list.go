package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/comments"
	"github.com/glabrego/lemmy-cli/internal/store"
	tuitheme "github.com/glabrego/lemmy-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type PostLineParams struct {
	Entry  store.PostEntry
	Now    time.Time
	Active bool
	Width  int
}

func RenderPostLine(p PostLineParams, th tuitheme.Theme) string {
	view := p.Entry.View
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf(" %s %s %s ", cursorMarker, voteMarker(view.MyVote), th.RenderScore(view.MyVote, view.Counts.Score))

	meta := []string{"c/" + view.Community.Name}
	if p.Entry.Link.Domain != "" {
		meta = append(meta, p.Entry.Link.Domain)
	}
	meta = append(meta, RelativeTimeLabel(p.Now, ParsePublished(view.Post.Published)))
	right := th.MetaLabel.Render(strings.Join(meta, " · "))

	available := p.Width - visibleLen(prefix) - 1 - visibleLen(right)
	if available < 1 {
		available = 1
	}
	label := truncateRunes(strings.TrimSpace(view.Post.Name), available)
	styledTitle := th.StylePostTitle(view, label)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+right)
}

type CommentLineParams struct {
	Row    comments.Row
	View   api.CommentView
	Active bool
	Width  int
}

func RenderCommentLine(p CommentLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	fold := "▾"
	if p.Row.Hidden > 0 {
		fold = "▸"
	}
	indent := strings.Repeat("  ", p.Row.Depth)
	left := fmt.Sprintf(" %s %s%s %s %s ", cursorMarker, indent, fold, th.RenderScore(p.View.MyVote, p.View.Counts.Score), th.Community.Render(p.View.Creator.Name))

	body := firstLine(p.View.Comment.Content)
	if p.View.Comment.Deleted || p.View.Comment.Removed {
		body = "[deleted]"
	}
	if p.Row.Hidden > 0 {
		body = fmt.Sprintf("(+%d) %s", p.Row.Hidden, body)
	}
	available := p.Width - visibleLen(left)
	if available < 1 {
		available = 1
	}
	return th.RenderActiveLine(p.Active, left+truncateRunes(body, available))
}

// ParsePublished reads the timestamps the server sends. Older servers omit
// the zone; those are UTC.
func ParsePublished(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999999", raw); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) {
		return "just now"
	}
	d := now.Sub(then)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", n)
	}
	if d < 24*time.Hour {
		n := int(d / time.Hour)
		if n == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", n)
	}
	n := int(d / (24 * time.Hour))
	if n == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", n)
}

func voteMarker(myVote int) string {
	switch myVote {
	case 1:
		return "▲"
	case -1:
		return "▼"
	default:
		return " "
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
