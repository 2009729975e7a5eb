package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"katalog/internal/models"
	"katalog/internal/storage"

	_ "github.com/lib/pq"
)

// PostgresDB reads dashboard rows from the Supabase Postgres database
type PostgresDB struct {
	conn   *sql.DB
	tables storage.TableNames
}

// DSN merges the store endpoint with its key. An empty key keeps whatever
// password the endpoint URL already carries.
func DSN(endpoint, key string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid database url scheme %q", u.Scheme)
	}
	if key != "" {
		user := "postgres"
		if u.User != nil && u.User.Username() != "" {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, key)
	}
	return u.String(), nil
}

// NewPostgresDB opens and pings a Postgres connection pool
func NewPostgresDB(dsn string, tables storage.TableNames) (*PostgresDB, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	return NewFromConn(conn, tables), nil
}

// NewFromConn wraps an existing pool
func NewFromConn(conn *sql.DB, tables storage.TableNames) *PostgresDB {
	return &PostgresDB{conn: conn, tables: tables}
}

// Initialize is a no-op - tables are managed via migrations
func (db *PostgresDB) Initialize(ctx context.Context) error {
	return nil
}

// FetchBooks returns the book rows matching q
func (db *PostgresDB) FetchBooks(ctx context.Context, q storage.Query) ([]models.Book, error) {
	query, args, err := storage.BuildSelect(db.tables.Books, storage.BookColumns, q, storage.DollarPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var (
			book                              models.Book
			title, bookURL, author, isbn, avg sql.NullString
			published, added, started, read   sql.NullString
			review, shelf, userID             sql.NullString
			rating, numPages                  sql.NullInt64
		)
		if err := rows.Scan(
			&book.ID, &title, &bookURL, &author, &isbn, &rating, &avg, &numPages,
			&published, &added, &started, &read, &review, &shelf, &userID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		book.Title, book.BookURL, book.Author, book.ISBN = str(title), str(bookURL), str(author), str(isbn)
		book.Rating, book.AvgRating, book.NumPages = num(rating), str(avg), num(numPages)
		book.DatePublished, book.DateAdded, book.DateStarted, book.DateRead = str(published), str(added), str(started), str(read)
		book.Review, book.Shelf, book.UserID = str(review), str(shelf), str(userID)
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	return books, nil
}

// FetchFeed returns the feed rows matching q
func (db *PostgresDB) FetchFeed(ctx context.Context, q storage.Query) ([]models.FeedItem, error) {
	query, args, err := storage.BuildSelect(db.tables.Feed, storage.FeedColumns, q, storage.DollarPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer rows.Close()

	var items []models.FeedItem
	for rows.Next() {
		var (
			item                                  models.FeedItem
			ts, userName, userURL, action, header sql.NullString
			title, bookURL, author, authorURL     sql.NullString
			description, timeAgo, userID          sql.NullString
			rating                                sql.NullInt64
		)
		if err := rows.Scan(
			&item.ID, &ts, &userName, &userURL, &action, &header, &title, &bookURL,
			&author, &authorURL, &rating, &description, &timeAgo, &userID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}
		item.Timestamp, item.UserName, item.UserURL = str(ts), str(userName), str(userURL)
		item.Action, item.HeaderText, item.BookTitle = str(action), str(header), str(title)
		item.BookURL, item.Author, item.AuthorURL = str(bookURL), str(author), str(authorURL)
		item.Rating, item.BookDescription, item.TimeAgo, item.UserID = num(rating), str(description), str(timeAgo), str(userID)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return items, nil
}

// FetchChallenges returns the reading challenge rows matching q
func (db *PostgresDB) FetchChallenges(ctx context.Context, q storage.Query) ([]models.ReadingChallenge, error) {
	query, args, err := storage.BuildSelect(db.tables.Challenges, storage.ChallengeColumns, q, storage.DollarPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reading challenges: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reading challenges: %w", err)
	}
	defer rows.Close()

	var challenges []models.ReadingChallenge
	for rows.Next() {
		var (
			c             models.ReadingChallenge
			ahead, behind sql.NullInt64
			updatedAt     sql.NullString
		)
		if err := rows.Scan(&c.Year, &c.UserID, &c.Goal, &c.BooksCompleted, &c.Percentage, &ahead, &behind, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reading challenge: %w", err)
		}
		c.BooksAhead, c.BooksBehind, c.UpdatedAt = num(ahead), num(behind), str(updatedAt)
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch reading challenges: %w", err)
	}
	return challenges, nil
}

// FetchMetadata returns the metadata value stored under key
func (db *PostgresDB) FetchMetadata(ctx context.Context, key string) (string, error) {
	q := storage.Query{}.Eq("key", key).WithLimit(1)
	query, args, err := storage.BuildSelect(db.tables.Metadata, storage.MetadataColumns, q, storage.DollarPlaceholder)
	if err != nil {
		return "", fmt.Errorf("failed to fetch metadata: %w", err)
	}

	var k string
	var value sql.NullString
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&k, &value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to fetch metadata %s: %w", key, err)
	}
	if !value.Valid {
		return "", storage.ErrNotFound
	}
	return value.String, nil
}

// Close closes the connection pool
func (db *PostgresDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

func str(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func num(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
