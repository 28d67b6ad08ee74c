package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/lemmy-cli/internal/store"
)

type WrapFunc func(string, int) []string

// PostHeaderLines is the block shown above a post's comments.
func PostHeaderLines(entry store.PostEntry, width int, wrap WrapFunc) []string {
	view := entry.View
	lines := make([]string, 0, 12)
	lines = append(lines, wrap(view.Post.Name, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, len(view.Post.Name)))))

	lines = append(lines, fmt.Sprintf("c/%s by %s", view.Community.Name, view.Creator.Name))
	lines = append(lines, fmt.Sprintf("Score: %d (+%d/-%d) | Comments: %d", view.Counts.Score, view.Counts.Upvotes, view.Counts.Downvotes, view.Counts.Comments))
	if entry.Link.URL != "" {
		lines = append(lines, wrap(fmt.Sprintf("Link (%s): %s", entry.Link.Type, entry.Link.URL), width)...)
	}
	if entry.Preview != "" {
		lines = append(lines, "")
		lines = append(lines, wrap(entry.Preview, width)...)
	}
	return lines
}
