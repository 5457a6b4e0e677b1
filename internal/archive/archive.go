// Package archive groups a newest-first article list into month buckets.
package archive

import (
	"time"

	"github.com/bilgisen/breakdown/internal/models"
)

// Bucket is every article of one calendar month.
type Bucket struct {
	Key      string           `json:"key"`
	Label    string           `json:"label"`
	Articles []models.Article `json:"articles"`
}

// Count is the bucket size as shown next to its label.
func (b Bucket) Count() int { return len(b.Articles) }

// GroupByMonth buckets items by the month of CreatedAt in loc. Buckets come
// in order of first appearance and keep the relative order of their
// articles, so a newest-first input yields newest-month-first buckets.
// The input slice is not modified.
func GroupByMonth(items []models.Article, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.UTC
	}

	buckets := []Bucket{}
	index := make(map[string]int)
	for _, a := range items {
		t := a.CreatedAt.In(loc)
		key := t.Format("2006-01")

		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Label: t.Format("January 2006")})
		}
		buckets[i].Articles = append(buckets[i].Articles, a)
	}
	return buckets
}
