package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/lemmy-cli/internal/api"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	Community  lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	VoteUp   lipgloss.Style
	VoteDown lipgloss.Style
	VoteNone lipgloss.Style

	TitleUnread lipgloss.Style
	TitleSaved  lipgloss.Style
	TitleRead   lipgloss.Style
	TitleGone   lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Community:   lipgloss.NewStyle().Foreground(cpTeal),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		VoteUp:      lipgloss.NewStyle().Bold(true).Foreground(cpPeach),
		VoteDown:    lipgloss.NewStyle().Bold(true).Foreground(cpBlue),
		VoteNone:    lipgloss.NewStyle().Foreground(cpSubtext0),
		TitleUnread: lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitleSaved: lipgloss.NewStyle().
			Italic(true).
			Foreground(cpLavender),
		TitleRead: lipgloss.NewStyle().Foreground(cpSubtext0),
		TitleGone: lipgloss.NewStyle().Strikethrough(true).Foreground(cpOverlay0),
	}
}

func (t Theme) StylePostTitle(post api.PostView, title string) string {
	if title == "" {
		return title
	}
	switch {
	case post.Post.Deleted || post.Post.Removed:
		return t.TitleGone.Render(title)
	case post.Saved:
		return t.TitleSaved.Render(title)
	case post.Read:
		return t.TitleRead.Render(title)
	default:
		return t.TitleUnread.Render(title)
	}
}

// RenderScore colors a score by the viewer's own vote.
func (t Theme) RenderScore(myVote, score int) string {
	label := fmt.Sprintf("%4d", score)
	switch myVote {
	case 1:
		return t.VoteUp.Render(label)
	case -1:
		return t.VoteDown.Render(label)
	default:
		return t.VoteNone.Render(label)
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
