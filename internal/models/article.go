package models

import (
	"time"
)

// sortKeyLayout is fixed width so timestamp keys compare lexically.
const sortKeyLayout = "2006-01-02T15:04:05.000000000Z"

// Article is a generated satirical piece. Articles are written by the
// generation pipeline and only ever read here.
type Article struct {
	ID          string    `json:"id"`
	Headline    string    `json:"headline"`
	Angle       string    `json:"angle"`
	Body        string    `json:"body"`
	Category    string    `json:"category"`
	OpinionType *string   `json:"opinion_type"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	RunType     string    `json:"run_type"`
}

// Field exposes column values by name. The second result is false for
// NULL columns and unknown names.
func (a Article) Field(name string) (string, bool) {
	switch name {
	case "id":
		return a.ID, true
	case "headline":
		return a.Headline, true
	case "angle":
		return a.Angle, true
	case "body":
		return a.Body, true
	case "category":
		return a.Category, true
	case "opinion_type":
		if a.OpinionType == nil {
			return "", false
		}
		return *a.OpinionType, true
	case "image_url":
		if a.ImageURL == nil {
			return "", false
		}
		return *a.ImageURL, true
	case "created_at":
		return SortKey(a.CreatedAt), true
	case "run_type":
		return a.RunType, true
	}
	return "", false
}

// IsOpinion reports whether the article belongs to the Opinion section.
func (a Article) IsOpinion() bool {
	return Category(a.Category) == CategoryOpinion
}

// Column returns the opinion column, or "" when the article has none.
func (a Article) Column() OpinionType {
	if a.OpinionType == nil {
		return ""
	}
	return OpinionType(*a.OpinionType)
}

// SortKey renders t so that string order matches chronological order.
func SortKey(t time.Time) string {
	return t.UTC().Format(sortKeyLayout)
}

// ParseSortKey reverses SortKey.
func ParseSortKey(s string) (time.Time, error) {
	return time.Parse(sortKeyLayout, s)
}
