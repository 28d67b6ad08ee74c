package preview

import (
	"reflect"
	"strings"
	"testing"

	"github.com/glabrego/lemmy-cli/internal/api"
)

func TestClassifyLink(t *testing.T) {
	cases := []struct {
		link   string
		typ    LinkType
		domain string
	}{
		{"", LinkNone, ""},
		{"https://i.imgur.com/abc.PNG", LinkImage, "imgur.com"},
		{"https://files.example.co.uk/clip.mp4?x=1", LinkVideo, "example.co.uk"},
		{"https://www.example.com/article", LinkGeneric, "example.com"},
		{"https://example.com/anim.gifv", LinkImage, "example.com"},
		{"http://192.168.1.5/cat.jpg", LinkGeneric, "192.168.1.5"},
		{"http://localhost/cat.jpg", LinkGeneric, "localhost"},
		{"not a url at all", LinkGeneric, ""},
	}
	for _, tc := range cases {
		got := ClassifyLink(tc.link)
		if got.Type != tc.typ || got.Domain != tc.domain {
			t.Fatalf("ClassifyLink(%q) = %+v, want type=%v domain=%q", tc.link, got, tc.typ, tc.domain)
		}
	}
}

func TestBodyPreview_StripsMarkupAndTruncates(t *testing.T) {
	got := BodyPreview("<p>Hello <b>world</b> &amp; friends</p>", 100)
	if got != "Hello world & friends" {
		t.Fatalf("unexpected preview: %q", got)
	}

	got = BodyPreview("# Title\n\nSee [the docs](https://example.com) and **bold** text\n![img](https://example.com/a.png)", 100)
	if got != "Title See the docs and bold text" {
		t.Fatalf("unexpected markdown preview: %q", got)
	}

	long := strings.Repeat("word ", 100)
	got = BodyPreview(long, 20)
	if len([]rune(got)) > 20 || !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated preview, got %q", got)
	}
	if BodyPreview("   ", 10) != "" {
		t.Fatal("blank body must yield empty preview")
	}
}

func TestTruncate_IsRuneSafe(t *testing.T) {
	if got := Truncate("ééééé", 4); got != "é..." {
		t.Fatalf("unexpected truncate: %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected truncate: %q", got)
	}
}

func TestDeriveAndImageURL(t *testing.T) {
	view := api.PostView{Post: api.Post{URL: "https://example.com/a.jpg", Body: "hi"}}
	d := Derive(view)
	if d.Link.Type != LinkImage || d.Preview != "hi" {
		t.Fatalf("unexpected derived fields: %+v", d)
	}
	if got := ImageURL(view, d.Link); got != "https://example.com/a.jpg" {
		t.Fatalf("unexpected image url: %q", got)
	}

	article := api.PostView{Post: api.Post{URL: "https://example.com/post", ThumbnailURL: "https://pics.example.com/t.webp"}}
	if got := ImageURL(article, ClassifyLink(article.Post.URL)); got != "https://pics.example.com/t.webp" {
		t.Fatalf("expected thumbnail fallback, got %q", got)
	}

	private := api.PostView{Post: api.Post{ThumbnailURL: "http://10.0.0.2/t.png"}}
	if got := ImageURL(private, ClassifyLink("")); got != "" {
		t.Fatalf("private thumbnail must be skipped, got %q", got)
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("the quick brown fox", 10)
	want := []string{"the quick", "brown fox"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %#v", got)
	}
	got = Wrap("abcdefghijkl", 5)
	want = []string{"abcde", "fghij", "kl"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected long word wrap: %#v", got)
	}
}
