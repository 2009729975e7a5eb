package stubs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"katalog/internal/models"
	"katalog/internal/storage"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu         sync.RWMutex
	books      []models.Book
	feed       []models.FeedItem
	challenges []models.ReadingChallenge
	metadata   map[string]string

	// Err, when set, is returned by every fetch
	Err error
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		metadata: make(map[string]string),
	}
}

// Initialize is a no-op; the mock starts empty
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// AddBooks appends book rows
func (m *MockDB) AddBooks(books ...models.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = append(m.books, books...)
}

// AddFeed appends feed rows
func (m *MockDB) AddFeed(items ...models.FeedItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feed = append(m.feed, items...)
}

// AddChallenges appends challenge rows
func (m *MockDB) AddChallenges(challenges ...models.ReadingChallenge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challenges = append(m.challenges, challenges...)
}

// SetMetadata stores a metadata value
func (m *MockDB) SetMetadata(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
}

// FetchBooks returns the book rows matching q
func (m *MockDB) FetchBooks(ctx context.Context, q storage.Query) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return apply(m.books, storage.BookColumns, bookValues, q)
}

// FetchFeed returns the feed rows matching q
func (m *MockDB) FetchFeed(ctx context.Context, q storage.Query) ([]models.FeedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return apply(m.feed, storage.FeedColumns, feedValues, q)
}

// FetchChallenges returns the challenge rows matching q
func (m *MockDB) FetchChallenges(ctx context.Context, q storage.Query) ([]models.ReadingChallenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return apply(m.challenges, storage.ChallengeColumns, challengeValues, q)
}

// FetchMetadata returns the metadata value for key
func (m *MockDB) FetchMetadata(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return "", m.Err
	}
	value, ok := m.metadata[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

// apply filters, orders and limits a copy of rows the way the SQL backends do
func apply[T any](rows []T, columns []string, values func(T) map[string]any, q storage.Query) ([]T, error) {
	for _, f := range q.Filters {
		if !slices.Contains(columns, f.Field) {
			return nil, fmt.Errorf("%w: %s", storage.ErrUnknownField, f.Field)
		}
	}
	if q.Order != nil && !slices.Contains(columns, q.Order.Field) {
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownField, q.Order.Field)
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v := values(row)
		matched := true
		for _, f := range q.Filters {
			if !equal(v[f.Field], f.Value) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, row)
		}
	}

	if q.Order != nil {
		field, desc := q.Order.Field, q.Order.Desc
		slices.SortStableFunc(out, func(a, b T) int {
			return compareValues(values(a)[field], values(b)[field], desc)
		})
	}

	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func equal(have, want any) bool {
	if have == nil {
		return want == nil
	}
	return fmt.Sprint(have) == fmt.Sprint(want)
}

// compareValues orders non-nil values by direction and always puts nil last
func compareValues(a, b any, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	var c int
	switch av := a.(type) {
	case int:
		c = cmp.Compare(av, b.(int))
	case int64:
		c = cmp.Compare(av, b.(int64))
	case float64:
		c = cmp.Compare(av, b.(float64))
	default:
		c = cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	if desc {
		return -c
	}
	return c
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func bookValues(b models.Book) map[string]any {
	return map[string]any{
		"id":             b.ID,
		"title":          deref(b.Title),
		"book_url":       deref(b.BookURL),
		"author":         deref(b.Author),
		"isbn":           deref(b.ISBN),
		"rating":         deref(b.Rating),
		"avg_rating":     deref(b.AvgRating),
		"num_pages":      deref(b.NumPages),
		"date_published": deref(b.DatePublished),
		"date_added":     deref(b.DateAdded),
		"date_started":   deref(b.DateStarted),
		"date_read":      deref(b.DateRead),
		"review":         deref(b.Review),
		"shelf":          deref(b.Shelf),
		"user_id":        deref(b.UserID),
	}
}

func feedValues(f models.FeedItem) map[string]any {
	return map[string]any{
		"id":               f.ID,
		"timestamp":        deref(f.Timestamp),
		"user_name":        deref(f.UserName),
		"user_url":         deref(f.UserURL),
		"action":           deref(f.Action),
		"header_text":      deref(f.HeaderText),
		"book_title":       deref(f.BookTitle),
		"book_url":         deref(f.BookURL),
		"author":           deref(f.Author),
		"author_url":       deref(f.AuthorURL),
		"rating":           deref(f.Rating),
		"book_description": deref(f.BookDescription),
		"time_ago":         deref(f.TimeAgo),
		"user_id":          deref(f.UserID),
	}
}

func challengeValues(c models.ReadingChallenge) map[string]any {
	return map[string]any{
		"year":            c.Year,
		"user_id":         c.UserID,
		"goal":            c.Goal,
		"books_completed": c.BooksCompleted,
		"percentage":      c.Percentage,
		"books_ahead":     deref(c.BooksAhead),
		"books_behind":    deref(c.BooksBehind),
		"updated_at":      deref(c.UpdatedAt),
	}
}

// ErrMockUnavailable is a ready-made fetch failure for tests
var ErrMockUnavailable = errors.New("mock store unavailable")
