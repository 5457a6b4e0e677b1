// Package query describes reads against the content store as plain data.
// Store adapters translate a Query into their own dialect; nothing in here
// knows about HTTP or SQL.
package query

import "fmt"

// Resource names a table in the content store.
type Resource string

const (
	ResourceArticles    Resource = "articles"
	ResourceComics      Resource = "comics"
	ResourceSubmissions Resource = "submissions"
)

// Filter is a row predicate: one of Eq, Neq or Contains.
type Filter interface {
	filter()
	String() string
}

// Eq matches rows whose Field equals Value. NULL never matches.
type Eq struct {
	Field string
	Value string
}

// Neq matches rows whose Field differs from Value. NULL never matches.
type Neq struct {
	Field string
	Value string
}

// Contains matches rows where any of Fields contains Term as a literal,
// case-insensitive substring. Term carries no wildcards; adapters escape it.
type Contains struct {
	Fields []string
	Term   string
}

func (Eq) filter()       {}
func (Neq) filter()      {}
func (Contains) filter() {}

func (f Eq) String() string       { return fmt.Sprintf("%s = %q", f.Field, f.Value) }
func (f Neq) String() string      { return fmt.Sprintf("%s != %q", f.Field, f.Value) }
func (f Contains) String() string { return fmt.Sprintf("%v ~ %q", f.Fields, f.Term) }

// Sort orders by one field.
type Sort struct {
	Field string
	Desc  bool
}

// Query is a single read: filters are ANDed, Order is applied left to right
// and the window [Offset, Offset+Limit) is taken last. Limit 0 means no limit.
type Query struct {
	Resource Resource
	Filters  []Filter
	Order    []Sort
	Offset   int
	Limit    int
}

// Newest is the canonical listing order. Rows sharing a timestamp fall back
// to id so pages never shuffle between requests.
var Newest = []Sort{
	{Field: "created_at", Desc: true},
	{Field: "id", Desc: true},
}
