package query

import (
	"strings"
	"unicode"

	"github.com/bilgisen/breakdown/internal/models"
)

const (
	// DefaultLimit is the page size used when none is given.
	DefaultLimit = 20
	// DefaultRelatedLimit is the size of the "more from this section" list.
	DefaultRelatedLimit = 5
	// MaxTermLength caps search input, in runes.
	MaxTermLength = 100
)

// Options selects a window of articles.
type Options struct {
	Category    string
	OpinionType string
	Limit       int
	Offset      int
	Search      string
}

// Normalize applies defaults and strips sentinels: "All" as a category and
// "all" as an opinion type both mean no restriction.
func (o Options) Normalize() Options {
	o.Category = strings.TrimSpace(o.Category)
	if strings.EqualFold(o.Category, string(models.CategoryAll)) {
		o.Category = ""
	}
	o.OpinionType = strings.TrimSpace(o.OpinionType)
	if strings.EqualFold(o.OpinionType, string(models.OpinionAll)) {
		o.OpinionType = ""
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.Search = SanitizeTerm(o.Search)
	return o
}

// Articles builds the listing query for o.
func Articles(o Options) Query {
	o = o.Normalize()

	q := Query{
		Resource: ResourceArticles,
		Order:    Newest,
		Offset:   o.Offset,
		Limit:    o.Limit,
	}
	if o.Category != "" {
		q.Filters = append(q.Filters, Eq{Field: "category", Value: o.Category})
	}
	if o.OpinionType != "" {
		q.Filters = append(q.Filters, Eq{Field: "opinion_type", Value: o.OpinionType})
	}
	if o.Search != "" {
		q.Filters = append(q.Filters, Contains{Fields: []string{"headline", "body"}, Term: o.Search})
	}
	return q
}

// Article looks up one article by id.
func Article(id string) Query {
	return Query{
		Resource: ResourceArticles,
		Filters:  []Filter{Eq{Field: "id", Value: id}},
		Limit:    1,
	}
}

// Related lists the newest articles of a section, leaving out excludeID.
func Related(category, excludeID string, limit int) Query {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	return Query{
		Resource: ResourceArticles,
		Filters: []Filter{
			Eq{Field: "category", Value: category},
			Neq{Field: "id", Value: excludeID},
		},
		Order: Newest,
		Limit: limit,
	}
}

// Comics lists every comic, newest first.
func Comics() Query {
	return Query{
		Resource: ResourceComics,
		Order:    Newest,
	}
}

// SanitizeTerm turns raw search input into a plain term: control characters
// become spaces, whitespace runs collapse and the result is capped at
// MaxTermLength runes. Pattern escaping is left to the adapters.
func SanitizeTerm(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > MaxTermLength {
		s = strings.TrimSpace(string(runes[:MaxTermLength]))
	}
	return s
}
