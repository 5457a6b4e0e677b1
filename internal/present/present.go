// Package present turns stored records into what readers see: excerpts,
// date labels, paragraphs and rendered bodies.
package present

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/bilgisen/breakdown/internal/archive"
	"github.com/bilgisen/breakdown/internal/models"
)

// Excerpt lengths used by article cards and the opinion column list.
const (
	CardExcerpt    = 120
	OpinionExcerpt = 200
)

const (
	DateLayout = "January 2, 2006"
	TimeLayout = "03:04 PM"
)

type Formatter struct {
	loc          *time.Location
	htmlTagRegex *regexp.Regexp
	md           goldmark.Markdown
}

func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{
		loc:          loc,
		htmlTagRegex: regexp.MustCompile(`<[^>]*>`),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithXHTML(),
			),
		),
	}
}

func (f *Formatter) Location() *time.Location { return f.loc }

// CleanText removes HTML tags and control characters and collapses
// whitespace.
func (f *Formatter) CleanText(input string) string {
	cleaned := f.htmlTagRegex.ReplaceAllString(input, " ")
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Excerpt flattens body to one line and cuts it to max runes, marking the
// cut with "...". Text that already fits is returned whole.
func (f *Formatter) Excerpt(body string, max int) string {
	text := f.CleanText(body)
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "..."
}

func (f *Formatter) Date(t time.Time) string { return t.In(f.loc).Format(DateLayout) }

func (f *Formatter) Time(t time.Time) string { return t.In(f.loc).Format(TimeLayout) }

// Paragraphs splits body on blank lines.
func Paragraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BodyHTML renders body as markdown. Raw HTML in the body is not passed
// through.
func (f *Formatter) BodyHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := f.md.Convert([]byte(strings.ReplaceAll(body, "\r\n", "\n")), &buf); err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return buf.String(), nil
}

// CountLabel is "1 article" or "N articles".
func CountLabel(n int) string {
	if n == 1 {
		return "1 article"
	}
	return fmt.Sprintf("%d articles", n)
}

// Card is an article as listed on a front or archive page.
type Card struct {
	models.Article
	Excerpt      string `json:"excerpt"`
	DateLabel    string `json:"date_label"`
	OpinionLabel string `json:"opinion_label,omitempty"`
}

// View is a full article page.
type View struct {
	models.Article
	DateLabel    string   `json:"date_label"`
	TimeLabel    string   `json:"time_label"`
	OpinionLabel string   `json:"opinion_label,omitempty"`
	Paragraphs   []string `json:"paragraphs"`
	BodyHTML     string   `json:"body_html"`
	Related      []Card   `json:"related"`
}

// Section is one month of an archive listing.
type Section struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
	CountLabel string `json:"count_label"`
	Items      []Card `json:"items"`
}

func (f *Formatter) Card(a models.Article) Card {
	limit := CardExcerpt
	if a.IsOpinion() {
		limit = OpinionExcerpt
	}
	c := Card{
		Article:   a,
		Excerpt:   f.Excerpt(a.Body, limit),
		DateLabel: f.Date(a.CreatedAt),
	}
	if a.OpinionType != nil {
		c.OpinionLabel = models.OpinionType(*a.OpinionType).Label()
	}
	return c
}

func (f *Formatter) Cards(items []models.Article) []Card {
	out := make([]Card, 0, len(items))
	for _, a := range items {
		out = append(out, f.Card(a))
	}
	return out
}

// View renders a full article with its related list. A body that fails to
// render leaves BodyHTML empty; paragraphs are always filled.
func (f *Formatter) View(a models.Article, related []models.Article) View {
	v := View{
		Article:    a,
		DateLabel:  f.Date(a.CreatedAt),
		TimeLabel:  f.Time(a.CreatedAt),
		Paragraphs: Paragraphs(a.Body),
		Related:    f.Cards(related),
	}
	if v.Paragraphs == nil {
		v.Paragraphs = []string{}
	}
	if a.OpinionType != nil {
		v.OpinionLabel = models.OpinionType(*a.OpinionType).Label()
	}
	if body, err := f.BodyHTML(a.Body); err == nil {
		v.BodyHTML = body
	}
	return v
}

// Sections groups items by month in the formatter's zone.
func (f *Formatter) Sections(items []models.Article) []Section {
	buckets := archive.GroupByMonth(items, f.loc)
	out := make([]Section, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, Section{
			Key:        b.Key,
			Label:      b.Label,
			Count:      b.Count(),
			CountLabel: CountLabel(b.Count()),
			Items:      f.Cards(b.Articles),
		})
	}
	return out
}
