package storage

import (
	"context"
	"errors"

	"katalog/internal/models"
)

var (
	// ErrNotFound is returned when a keyed lookup has no row
	ErrNotFound = errors.New("not found")
	// ErrUnknownField is returned when a query names a column the table does not have
	ErrUnknownField = errors.New("unknown field")
)

// Filter is an equality predicate on one column
type Filter struct {
	Field string
	Value any
}

// Order sorts the result by one column
type Order struct {
	Field string
	Desc  bool
}

// Query describes a filtered, ordered and limited table scan.
// A zero Limit means no limit.
type Query struct {
	Filters []Filter
	Order   *Order
	Limit   int
}

// Eq adds an equality filter
func (q Query) Eq(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

// OrderBy sets the result order
func (q Query) OrderBy(field string, desc bool) Query {
	q.Order = &Order{Field: field, Desc: desc}
	return q
}

// WithLimit truncates the result to n rows
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Storage defines the row source consumed by the dashboard pipelines
type Storage interface {
	// Row scans
	FetchBooks(ctx context.Context, q Query) ([]models.Book, error)
	FetchFeed(ctx context.Context, q Query) ([]models.FeedItem, error)
	FetchChallenges(ctx context.Context, q Query) ([]models.ReadingChallenge, error)

	// FetchMetadata returns the value stored under key, or ErrNotFound
	FetchMetadata(ctx context.Context, key string) (string, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
