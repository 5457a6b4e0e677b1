package models

import "time"

// Comic is a single-panel strip.
type Comic struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	Caption   *string   `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Comic) Field(name string) (string, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "image_url":
		return c.ImageURL, true
	case "caption":
		if c.Caption == nil {
			return "", false
		}
		return *c.Caption, true
	case "created_at":
		return SortKey(c.CreatedAt), true
	}
	return "", false
}
