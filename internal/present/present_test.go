package present

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/breakdown/internal/models"
)

func TestExcerpt(t *testing.T) {
	f := NewFormatter(time.UTC)

	assert.Equal(t, "Short line and more", f.Excerpt("Short line\nand more", 120))
	assert.Equal(t, "abcde...", f.Excerpt("abcde fghij", 6))
	assert.Equal(t, "héllo...", f.Excerpt("héllo wörld", 5))
	assert.Equal(t, "a b", f.Excerpt("<p>a</p>\n\n<p>b</p>", 0))
	assert.Equal(t, "Tom & Jerry", f.Excerpt("Tom &amp; Jerry", 50))
}

func TestDateAndTimeLabels(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)

	f := NewFormatter(time.UTC)
	assert.Equal(t, "March 5, 2024", f.Date(ts))
	assert.Equal(t, "02:07 PM", f.Time(ts))

	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	f = NewFormatter(la)
	assert.Equal(t, "March 5, 2024", f.Date(ts))
	assert.Equal(t, "06:07 AM", f.Time(ts))
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("First line.\r\n\r\nSecond\nstill second.\n\n\n\nThird.\n")
	assert.Equal(t, []string{"First line.", "Second\nstill second.", "Third."}, got)
	assert.Empty(t, Paragraphs("  \n\n "))
}

func TestBodyHTMLDropsRawHTML(t *testing.T) {
	f := NewFormatter(time.UTC)

	out, err := f.BodyHTML("Local man **baffled**.\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>baffled</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Equal(t, 1, strings.Count(out, "<p>"))
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "1 article", CountLabel(1))
	assert.Equal(t, "3 articles", CountLabel(3))
	assert.Equal(t, "0 articles", CountLabel(0))
}

func TestCardAndView(t *testing.T) {
	f := NewFormatter(time.UTC)
	gabby := string(models.OpinionDearGabby)
	a := models.Article{
		ID:          "o1",
		Headline:    "Dear Gabby: my cat files taxes",
		Body:        strings.Repeat("word ", 60) + "\n\nSecond paragraph.",
		Category:    string(models.CategoryOpinion),
		OpinionType: &gabby,
		CreatedAt:   time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC),
	}

	c := f.Card(a)
	assert.Equal(t, "Dear Gabby", c.OpinionLabel)
	assert.True(t, strings.HasSuffix(c.Excerpt, "..."))
	assert.LessOrEqual(t, len([]rune(c.Excerpt)), OpinionExcerpt+3)
	assert.Equal(t, "March 1, 2024", c.DateLabel)

	v := f.View(a, []models.Article{{ID: "o2", Body: "Short.", CreatedAt: a.CreatedAt}})
	assert.Len(t, v.Paragraphs, 2)
	assert.Equal(t, "09:30 AM", v.TimeLabel)
	require.Len(t, v.Related, 1)
	assert.Equal(t, "Short.", v.Related[0].Excerpt)
	assert.Contains(t, v.BodyHTML, "<p>Second paragraph.</p>")
}

func TestSections(t *testing.T) {
	f := NewFormatter(time.UTC)
	items := []models.Article{
		{ID: "m1", CreatedAt: time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)},
		{ID: "f1", CreatedAt: time.Date(2024, time.February, 9, 0, 0, 0, 0, time.UTC)},
		{ID: "f2", CreatedAt: time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)},
	}

	got := f.Sections(items)
	require.Len(t, got, 2)
	assert.Equal(t, "March 2024", got[0].Label)
	assert.Equal(t, "1 article", got[0].CountLabel)
	assert.Equal(t, "February 2024", got[1].Label)
	assert.Equal(t, "2 articles", got[1].CountLabel)
	assert.Equal(t, "f2", got[1].Items[1].ID)
}
