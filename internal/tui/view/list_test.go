package view

import (
	"strings"
	"testing"
	"time"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/comments"
	"github.com/glabrego/lemmy-cli/internal/preview"
	"github.com/glabrego/lemmy-cli/internal/store"
	tuitheme "github.com/glabrego/lemmy-cli/internal/tui/theme"
)

func TestRenderPostLine(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	entry := store.PostEntry{
		View: api.PostView{
			Post:      api.Post{ID: 1, Name: "Generics in practice", Published: "2026-02-09T09:00:00Z"},
			Community: api.Community{Name: "golang"},
			Counts:    api.Counts{Score: 42},
			MyVote:    1,
		},
		Link: preview.LinkInfo{Domain: "go.dev"},
	}

	line := stripANSI(RenderPostLine(PostLineParams{Entry: entry, Now: now, Active: true, Width: 80}, tuitheme.Default()))
	if !strings.HasPrefix(line, " > ▲   42 Generics in practice") {
		t.Fatalf("unexpected line start: %q", line)
	}
	if !strings.HasSuffix(line, "c/golang · go.dev · 3 hours ago") {
		t.Fatalf("unexpected line end: %q", line)
	}
}

func TestRenderPostLine_TruncatesToWidth(t *testing.T) {
	entry := store.PostEntry{View: api.PostView{
		Post:      api.Post{Name: strings.Repeat("long title ", 20)},
		Community: api.Community{Name: "c"},
	}}
	line := stripANSI(RenderPostLine(PostLineParams{Entry: entry, Now: time.Now(), Width: 60}, tuitheme.Default()))
	if got := len([]rune(line)); got != 60 {
		t.Fatalf("expected 60 columns, got %d: %q", got, line)
	}
	if !strings.Contains(line, "...") {
		t.Fatalf("expected ellipsis: %q", line)
	}
}

func TestRenderCommentLine(t *testing.T) {
	th := tuitheme.Default()
	row := comments.Row{CommentID: 2, Depth: 2, Hidden: 3}
	view := api.CommentView{
		Comment: api.Comment{ID: 2, Content: "first line\nsecond line"},
		Creator: api.Person{Name: "alice"},
		Counts:  api.Counts{Score: 7},
	}
	line := stripANSI(RenderCommentLine(CommentLineParams{Row: row, View: view, Width: 80}, th))
	if !strings.Contains(line, "    ▸    7 alice (+3) first line") {
		t.Fatalf("unexpected comment line: %q", line)
	}
	if strings.Contains(line, "second line") {
		t.Fatalf("only the first line must be shown: %q", line)
	}
}

func TestParsePublished(t *testing.T) {
	withZone := ParsePublished("2026-02-09T09:00:00.123Z")
	withoutZone := ParsePublished("2026-02-09T09:00:00.123")
	if withZone.IsZero() || !withZone.Equal(withoutZone) {
		t.Fatalf("expected equal instants, got %v and %v", withZone, withoutZone)
	}
	if !ParsePublished("yesterday").IsZero() {
		t.Fatal("unparsable timestamps must be zero")
	}
}

func TestRelativeTimeLabel(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		then time.Time
		want string
	}{
		{then: now.Add(-30 * time.Second), want: "just now"},
		{then: now.Add(-1 * time.Minute), want: "1 minute ago"},
		{then: now.Add(-3 * time.Minute), want: "3 minutes ago"},
		{then: now.Add(-1 * time.Hour), want: "1 hour ago"},
		{then: now.Add(-7 * time.Hour), want: "7 hours ago"},
		{then: now.Add(-1 * 24 * time.Hour), want: "1 day ago"},
		{then: now.Add(-7 * 24 * time.Hour), want: "7 days ago"},
		{then: time.Time{}, want: "unknown"},
	}
	for _, tc := range cases {
		if got := RelativeTimeLabel(now, tc.then); got != tc.want {
			t.Fatalf("RelativeTimeLabel(%s) = %q, want %q", tc.then.UTC().Format(time.RFC3339), got, tc.want)
		}
	}
}

func TestPostHeaderLines(t *testing.T) {
	entry := store.PostEntry{
		View: api.PostView{
			Post:      api.Post{Name: "Title"},
			Community: api.Community{Name: "golang"},
			Creator:   api.Person{Name: "bob"},
			Counts:    api.Counts{Score: 3, Upvotes: 4, Downvotes: 1, Comments: 2},
		},
		Link:    preview.LinkInfo{URL: "https://go.dev/x.png", Type: preview.LinkImage},
		Preview: "Short body",
	}
	lines := PostHeaderLines(entry, 40, preview.Wrap)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Title", "c/golang by bob", "Score: 3 (+4/-1) | Comments: 2", "Short body"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in header:\n%s", want, joined)
		}
	}
}

func TestRenderRows(t *testing.T) {
	got := RenderRows(1, 3, 2, func(i int, active bool) string {
		if active {
			return "*"
		}
		return "-"
	})
	if got != "-\n*\n" {
		t.Fatalf("unexpected rows: %q", got)
	}
}
