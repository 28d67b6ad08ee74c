package preview

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"

	"github.com/glabrego/lemmy-cli/internal/api"
)

const DefaultPreviewRunes = 200

var (
	strictPolicy = bluemonday.StrictPolicy()

	reMarkdownImage = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	reMarkdownLink  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reMarkdownMarks = regexp.MustCompile("(?m)^\\s{0,3}(#{1,6}|>+|[-*+]|\\d+\\.)\\s+|[*_`~]{1,3}")
)

// BodyPreview renders a post body as a single line of plain text no longer
// than maxRunes.
func BodyPreview(body string, maxRunes int) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	text := strictPolicy.Sanitize(body)
	text = nethtml.UnescapeString(text)
	text = reMarkdownImage.ReplaceAllString(text, "")
	text = reMarkdownLink.ReplaceAllString(text, "$1")
	text = reMarkdownMarks.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")
	return Truncate(text, maxRunes)
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return strings.TrimSpace(string([]rune(s)[:max-3])) + "..."
}

// Derived are the display fields computed when a post enters the cache.
type Derived struct {
	Link    LinkInfo
	Preview string
}

func Derive(view api.PostView) Derived {
	return Derived{
		Link:    ClassifyLink(view.Post.URL),
		Preview: BodyPreview(view.Post.Body, DefaultPreviewRunes),
	}
}

// ImageURL returns the image worth prefetching for a post, if any.
func ImageURL(view api.PostView, link LinkInfo) string {
	if link.Type == LinkImage {
		return link.URL
	}
	if thumb := strings.TrimSpace(view.Post.ThumbnailURL); thumb != "" && !isPrivateURL(thumb) {
		return thumb
	}
	return ""
}

func isPrivateURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return true
	}
	return isPrivateHost(parsed.Hostname())
}

// Wrap breaks text into lines of at most width runes, splitting long words.
func Wrap(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for utf8.RuneCountInString(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				r := []rune(word)
				out = append(out, string(r[:width]))
				word = string(r[width:])
			}

			if line == "" {
				line = word
				continue
			}
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width {
				line += " " + word
				continue
			}
			out = append(out, line)
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
