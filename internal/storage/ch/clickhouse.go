package ch

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"

	"katalog/internal/models"
	"katalog/internal/storage"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type ClickHouseDB struct {
	conn   clickhouse.Conn
	tables storage.TableNames
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool, tables storage.TableNames) (*ClickHouseDB, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn, tables: tables}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	return nil
}

// FetchBooks returns the book rows matching q
func (db *ClickHouseDB) FetchBooks(ctx context.Context, q storage.Query) ([]models.Book, error) {
	query, args, err := storage.BuildSelect(db.tables.Books, storage.BookColumns, q, storage.QuestionPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}

	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var (
			book            models.Book
			rating, numPage *int32
		)
		if err := rows.Scan(
			&book.ID, &book.Title, &book.BookURL, &book.Author, &book.ISBN, &rating, &book.AvgRating, &numPage,
			&book.DatePublished, &book.DateAdded, &book.DateStarted, &book.DateRead, &book.Review, &book.Shelf, &book.UserID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		book.Rating = widen(rating)
		book.NumPages = widen(numPage)
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	return books, nil
}

// FetchFeed returns the feed rows matching q
func (db *ClickHouseDB) FetchFeed(ctx context.Context, q storage.Query) ([]models.FeedItem, error) {
	query, args, err := storage.BuildSelect(db.tables.Feed, storage.FeedColumns, q, storage.QuestionPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer rows.Close()

	var items []models.FeedItem
	for rows.Next() {
		var (
			item   models.FeedItem
			rating *int32
		)
		if err := rows.Scan(
			&item.ID, &item.Timestamp, &item.UserName, &item.UserURL, &item.Action, &item.HeaderText, &item.BookTitle,
			&item.BookURL, &item.Author, &item.AuthorURL, &rating, &item.BookDescription, &item.TimeAgo, &item.UserID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}
		item.Rating = widen(rating)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return items, nil
}

// FetchChallenges returns the reading challenge rows matching q
func (db *ClickHouseDB) FetchChallenges(ctx context.Context, q storage.Query) ([]models.ReadingChallenge, error) {
	query, args, err := storage.BuildSelect(db.tables.Challenges, storage.ChallengeColumns, q, storage.QuestionPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reading challenges: %w", err)
	}

	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reading challenges: %w", err)
	}
	defer rows.Close()

	var challenges []models.ReadingChallenge
	for rows.Next() {
		var (
			c                     models.ReadingChallenge
			year, goal, completed int32
			ahead, behind         *int32
		)
		if err := rows.Scan(&year, &c.UserID, &goal, &completed, &c.Percentage, &ahead, &behind, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reading challenge: %w", err)
		}
		c.Year, c.Goal, c.BooksCompleted = int(year), int(goal), int(completed)
		c.BooksAhead = widen(ahead)
		c.BooksBehind = widen(behind)
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch reading challenges: %w", err)
	}
	return challenges, nil
}

// FetchMetadata returns the metadata value stored under key
func (db *ClickHouseDB) FetchMetadata(ctx context.Context, key string) (string, error) {
	q := storage.Query{}.Eq("key", key).WithLimit(1)
	query, args, err := storage.BuildSelect(db.tables.Metadata, storage.MetadataColumns, q, storage.QuestionPlaceholder)
	if err != nil {
		return "", fmt.Errorf("failed to fetch metadata: %w", err)
	}

	var k, value string
	if err := db.conn.QueryRow(ctx, query, args...).Scan(&k, &value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to fetch metadata %s: %w", key, err)
	}
	return value, nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

func widen(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
