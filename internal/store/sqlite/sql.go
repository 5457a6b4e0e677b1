package sqlite

import (
	"fmt"
	"strings"

	"github.com/bilgisen/breakdown/internal/query"
)

// columns whitelists what a descriptor may reference per table; field names
// are spliced into SQL, values never are.
var columns = map[query.Resource]map[string]bool{
	query.ResourceArticles: {
		"id": true, "headline": true, "angle": true, "body": true, "category": true,
		"opinion_type": true, "image_url": true, "created_at": true, "run_type": true,
	},
	query.ResourceComics: {
		"id": true, "image_url": true, "caption": true, "created_at": true,
	},
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildSelect(q query.Query, selectCols string) (string, []interface{}, error) {
	allowed, ok := columns[q.Resource]
	if !ok {
		return "", nil, fmt.Errorf("resource %q is not readable", q.Resource)
	}
	check := func(field string) error {
		if !allowed[field] {
			return fmt.Errorf("unknown column %q on %s", field, q.Resource)
		}
		return nil
	}

	var (
		where []string
		args  []interface{}
	)
	for _, f := range q.Filters {
		switch f := f.(type) {
		case query.Eq:
			if err := check(f.Field); err != nil {
				return "", nil, err
			}
			where = append(where, f.Field+" = ?")
			args = append(args, f.Value)
		case query.Neq:
			if err := check(f.Field); err != nil {
				return "", nil, err
			}
			where = append(where, f.Field+" <> ?")
			args = append(args, f.Value)
		case query.Contains:
			pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Term)) + "%"
			conds := make([]string, len(f.Fields))
			for i, field := range f.Fields {
				if err := check(field); err != nil {
					return "", nil, err
				}
				conds[i] = foldFunc + "(" + field + `) LIKE ? ESCAPE '\'`
				args = append(args, pattern)
			}
			where = append(where, "("+strings.Join(conds, " OR ")+")")
		default:
			return "", nil, fmt.Errorf("unsupported filter %T", f)
		}
	}

	stmt := "SELECT " + selectCols + " FROM " + string(q.Resource)
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}

	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, s := range q.Order {
			if err := check(s.Field); err != nil {
				return "", nil, err
			}
			dir := "ASC"
			if s.Desc {
				dir = "DESC"
			}
			parts[i] = s.Field + " " + dir
		}
		stmt += " ORDER BY " + strings.Join(parts, ", ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	stmt += " LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	return stmt, args, nil
}
