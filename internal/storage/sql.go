package storage

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Placeholder renders the n-th (1-based) bind parameter of a dialect
type Placeholder func(n int) string

// DollarPlaceholder renders Postgres-style parameters ($1, $2, ...)
func DollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// QuestionPlaceholder renders ClickHouse-style parameters (?)
func QuestionPlaceholder(int) string {
	return "?"
}

// BuildSelect renders q as a SELECT over table. Every field named by the query
// must be one of columns.
func BuildSelect(table string, columns []string, q Query, ph Placeholder) (string, []any, error) {
	if !identifier.MatchString(table) {
		return "", nil, fmt.Errorf("invalid table name %q", table)
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		if !slices.Contains(columns, f.Field) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, table, f.Field)
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, f.Value)
		sb.WriteString(quote(f.Field))
		sb.WriteString(" = ")
		sb.WriteString(ph(len(args)))
	}

	if q.Order != nil {
		if !slices.Contains(columns, q.Order.Field) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, table, q.Order.Field)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(quote(q.Order.Field))
		if q.Order.Desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}

	return sb.String(), args, nil
}

func quote(ident string) string {
	return `"` + ident + `"`
}
