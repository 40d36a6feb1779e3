package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	dom "github.com/seowalex/cvwo/internal/domain"
)

// SortKey is one of the closed set of sortable task attributes.
type SortKey string

const (
	SortTitle    SortKey = "title"
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "due_date"
)

var sortKeys = map[SortKey]func(a, b dom.Task) int{
	SortTitle:    compareTitle,
	SortPriority: comparePriority,
	SortDueDate:  compareDueDate,
}

// SortField is a key plus direction.
type SortField struct {
	Key  SortKey
	Desc bool
}

func (f SortField) String() string {
	if f.Desc {
		return "-" + string(f.Key)
	}
	return string(f.Key)
}

// ParseSort parses a comma-separated sort expression such as "-priority,title".
// An empty expression yields no fields. The parameter name is used in the
// returned validation error.
func ParseSort(param, raw string) ([]SortField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var fields []SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		f := SortField{Key: SortKey(part)}
		if strings.HasPrefix(part, "-") {
			f = SortField{Key: SortKey(part[1:]), Desc: true}
		}
		if _, ok := sortKeys[f.Key]; !ok {
			return nil, dom.NewParameterError(param, fmt.Sprintf("unsupported sort key %q", f.Key))
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// FormatSort is the inverse of ParseSort.
func FormatSort(fields []SortField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// Params are the list options of one request.
type Params struct {
	Completed *bool
	Search    string
	Sort      []SortField
}

// Apply filters and orders tasks, which must already be scoped to a single
// owner. The input is not modified; the result is a fresh slice.
//
// With sort fields, incomplete tasks always come first and the fields order
// tasks within each group. Without sort fields tasks are ordered by position.
// Ties fall back to position, then id.
func Apply(tasks []dom.Task, p Params) []dom.Task {
	search := ExtractTags(p.Search)
	out := make([]dom.Task, 0, len(tasks))
	for _, t := range tasks {
		if p.Completed != nil && t.Completed != *p.Completed {
			continue
		}
		if !search.Matches(t) {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b dom.Task) int {
		if len(p.Sort) > 0 {
			if c := compareCompleted(a, b); c != 0 {
				return c
			}
			for _, f := range p.Sort {
				c := sortKeys[f.Key](a, b)
				if f.Desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
		}
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func compareCompleted(a, b dom.Task) int {
	switch {
	case a.Completed == b.Completed:
		return 0
	case a.Completed:
		return 1
	default:
		return -1
	}
}

func compareTitle(a, b dom.Task) int {
	return cmp.Or(
		strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)),
		strings.Compare(a.Title, b.Title),
	)
}

// Nulls compare greater than any value so they land last ascending and
// first descending, as in Postgres.
func comparePriority(a, b dom.Task) int {
	return compareNullable(a.Priority, b.Priority, cmp.Compare[int])
}

func compareDueDate(a, b dom.Task) int {
	return compareNullable(a.DueDate, b.DueDate, dom.Date.Compare)
}

func compareNullable[T any](a, b *T, less func(T, T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return less(*a, *b)
	}
}
