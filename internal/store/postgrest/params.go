package postgrest

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bilgisen/breakdown/internal/query"
)

// Params renders q as PostgREST query parameters.
func Params(q query.Query) url.Values {
	v := url.Values{}
	v.Set("select", "*")

	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, s := range q.Order {
			dir := "asc"
			if s.Desc {
				dir = "desc"
			}
			parts[i] = s.Field + "." + dir
		}
		v.Set("order", strings.Join(parts, ","))
	}

	for _, f := range q.Filters {
		switch f := f.(type) {
		case query.Eq:
			v.Add(f.Field, "eq."+f.Value)
		case query.Neq:
			v.Add(f.Field, "neq."+f.Value)
		case query.Contains:
			pattern := quote(Pattern(f.Term))
			conds := make([]string, len(f.Fields))
			for i, field := range f.Fields {
				conds[i] = field + ".ilike." + pattern
			}
			v.Add("or", "("+strings.Join(conds, ",")+")")
		}
	}

	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
	// PostgREST rewrites * to % before the pattern reaches the database, so
	// a literal asterisk cannot be expressed; a one-character wildcard keeps
	// every real match.
	`*`, `_`,
)

// Pattern wraps term in wildcards after escaping LIKE metacharacters.
func Pattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote protects reserved list characters (",", "(", ")", quotes) inside
// or=(...) values.
func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
