package query

import (
	"sort"
	"strings"
)

// Record is a row the in-memory evaluator can read.
type Record interface {
	Field(name string) (string, bool)
}

// Eval runs q over rows with the same semantics the SQL adapters produce.
// rows is not modified.
func Eval[T Record](q Query, rows []T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if Match(q.Filters, r) {
			out = append(out, r)
		}
	}

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return less(q.Order, out[i], out[j])
		})
	}

	if q.Offset >= len(out) {
		return out[:0]
	}
	out = out[q.Offset:]
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

// Match reports whether r satisfies every filter.
func Match(filters []Filter, r Record) bool {
	for _, f := range filters {
		if !matchOne(f, r) {
			return false
		}
	}
	return true
}

func matchOne(f Filter, r Record) bool {
	switch f := f.(type) {
	case Eq:
		v, ok := r.Field(f.Field)
		return ok && v == f.Value
	case Neq:
		v, ok := r.Field(f.Field)
		return ok && v != f.Value
	case Contains:
		term := strings.ToLower(f.Term)
		for _, name := range f.Fields {
			v, ok := r.Field(name)
			if ok && strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
		return false
	}
	return false
}

func less(order []Sort, a, b Record) bool {
	for _, s := range order {
		av, _ := a.Field(s.Field)
		bv, _ := b.Field(s.Field)
		if av == bv {
			continue
		}
		if s.Desc {
			return av > bv
		}
		return av < bv
	}
	return false
}
