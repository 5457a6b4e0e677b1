package models

// Category is the section an article is filed under.
type Category string

const (
	// CategoryAll is the filter sentinel meaning "no category restriction".
	CategoryAll           Category = "All"
	CategoryWorld         Category = "World"
	CategoryNational      Category = "National"
	CategoryEntertainment Category = "Entertainment"
	CategorySports        Category = "Sports"
	CategoryLifestyle     Category = "Lifestyle"
	CategoryOpinion       Category = "Opinion"
)

// Categories lists the real sections in display order.
var Categories = []Category{
	CategoryWorld,
	CategoryNational,
	CategoryEntertainment,
	CategorySports,
	CategoryLifestyle,
	CategoryOpinion,
}

// Valid reports whether c is one of the known sections or the All sentinel.
func (c Category) Valid() bool {
	if c == CategoryAll {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// OpinionType is the column an Opinion article belongs to.
type OpinionType string

const (
	// OpinionAll is the filter sentinel used by clients for "every column".
	OpinionAll       OpinionType = "all"
	OpinionDearGabby OpinionType = "dear_gabby"
	OpinionDearGuy   OpinionType = "dear_guy"
	OpinionGuysWorld OpinionType = "guys_world"
)

// OpinionTypes lists the columns in display order.
var OpinionTypes = []OpinionType{
	OpinionDearGabby,
	OpinionDearGuy,
	OpinionGuysWorld,
}

var opinionLabels = map[OpinionType]string{
	OpinionAll:       "All Opinion",
	OpinionDearGabby: "Dear Gabby",
	OpinionDearGuy:   "Dear Guy",
	OpinionGuysWorld: "Guy's World",
}

// Label returns the column's display name, or the raw value for unknown columns.
func (t OpinionType) Label() string {
	if label, ok := opinionLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid reports whether t is a known column or the all sentinel.
func (t OpinionType) Valid() bool {
	_, ok := opinionLabels[t]
	return ok
}
