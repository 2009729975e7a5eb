package ch

import (
	"context"
	"errors"
	"testing"

	"katalog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"
)

// setupTestDB creates a test ClickHouse instance using testcontainers
func setupTestDB(t *testing.T) (*ClickHouseDB, func()) {
	if testing.Short() {
		t.Skip("skipping ClickHouse integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	// Start ClickHouse container
	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	// Get connection details
	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	// Create database connection
	db, err := NewClickHouseDB(host, port.Int(), "default", "default", "", false, storage.TablesFor("test"))
	require.NoError(t, err, "Failed to connect to ClickHouse")

	require.NoError(t, db.DropTables(ctx))
	require.NoError(t, db.CreateTables(ctx), "Failed to create tables")

	// Cleanup function
	cleanup := func() {
		db.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return db, cleanup
}

// TestClickHouseDB_FetchBooks tests scanning nullable book columns and filtering by user
func TestClickHouseDB_FetchBooks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	insert := `INSERT INTO books_dev (id, title, author, rating, avg_rating, num_pages, date_added, date_read, shelf, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	err := db.conn.Exec(ctx, insert, "1", "Dune", "Frank Herbert", int32(5), "4.27", int32(412), "2025-04-01", "2025-04-15", "read", "alice")
	require.NoError(t, err)
	err = db.conn.Exec(ctx, insert, "2", "Emma", nil, nil, nil, nil, nil, nil, "to_read", "alice")
	require.NoError(t, err)
	err = db.conn.Exec(ctx, insert, "3", "Ulysses", "James Joyce", nil, "3.74", nil, nil, nil, "read", "bob")
	require.NoError(t, err)

	books, err := db.FetchBooks(ctx, storage.Query{}.Eq("user_id", "alice").OrderBy("id", false))
	require.NoError(t, err)
	require.Len(t, books, 2)

	dune := books[0]
	assert.Equal(t, "1", dune.ID)
	require.NotNil(t, dune.Rating)
	assert.Equal(t, 5, *dune.Rating)
	require.NotNil(t, dune.NumPages)
	assert.Equal(t, 412, *dune.NumPages)
	require.NotNil(t, dune.AvgRating)
	assert.Equal(t, "4.27", *dune.AvgRating)
	require.NotNil(t, dune.DateRead)
	assert.Equal(t, "2025-04-15", *dune.DateRead)

	emma := books[1]
	assert.Nil(t, emma.Author)
	assert.Nil(t, emma.Rating)
	assert.Nil(t, emma.NumPages)
	assert.Nil(t, emma.DateRead)
	require.NotNil(t, emma.Shelf)
	assert.Equal(t, "to_read", *emma.Shelf)
}

// TestClickHouseDB_FetchFeed tests ordering and limiting the feed scan
func TestClickHouseDB_FetchFeed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	insert := `INSERT INTO feed_dev (id, timestamp, action, header_text, book_title) VALUES (?, ?, ?, ?, ?)`
	timestamps := []string{"2025-04-01T10:00:00Z", "2025-04-03T10:00:00Z", "2025-04-02T10:00:00Z"}
	for i, ts := range timestamps {
		err := db.conn.Exec(ctx, insert, int64(i+1), ts, "rated", "alice rated a book", "Dune")
		require.NoError(t, err)
	}

	items, err := db.FetchFeed(ctx, storage.Query{}.OrderBy("timestamp", true).WithLimit(2))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, int64(3), items[1].ID)
	require.NotNil(t, items[0].Action)
	assert.Equal(t, "rated", *items[0].Action)
	assert.Nil(t, items[0].Rating)
}

// TestClickHouseDB_FetchChallenges tests filtering challenges by year
func TestClickHouseDB_FetchChallenges(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	insert := `INSERT INTO reading_challenges_dev (year, user_id, goal, books_completed, percentage, books_ahead, books_behind)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	require.NoError(t, db.conn.Exec(ctx, insert, int32(2024), "alice", int32(30), int32(31), 103.3, nil, nil))
	require.NoError(t, db.conn.Exec(ctx, insert, int32(2025), "alice", int32(50), int32(10), 20.0, nil, int32(1)))

	challenges, err := db.FetchChallenges(ctx, storage.Query{}.Eq("year", 2025).Eq("user_id", "alice"))
	require.NoError(t, err)
	require.Len(t, challenges, 1)

	c := challenges[0]
	assert.Equal(t, 2025, c.Year)
	assert.Equal(t, 50, c.Goal)
	assert.Equal(t, 10, c.BooksCompleted)
	assert.InDelta(t, 20.0, c.Percentage, 0.001)
	assert.Nil(t, c.BooksAhead)
	require.NotNil(t, c.BooksBehind)
	assert.Equal(t, 1, *c.BooksBehind)

	none, err := db.FetchChallenges(ctx, storage.Query{}.Eq("year", 2030))
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestClickHouseDB_FetchMetadata tests key lookups
func TestClickHouseDB_FetchMetadata(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	err := db.conn.Exec(ctx, `INSERT INTO metadata_dev (key, value) VALUES (?, ?)`, storage.MetaLastRefreshed, "2025-04-15T08:00:00Z")
	require.NoError(t, err)

	value, err := db.FetchMetadata(ctx, storage.MetaLastRefreshed)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-15T08:00:00Z", value)

	_, err = db.FetchMetadata(ctx, storage.MetaNextScrape)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

// TestClickHouseDB_UnknownField tests that unknown columns never reach the server
func TestClickHouseDB_UnknownField(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.FetchBooks(context.Background(), storage.Query{}.Eq("1=1 OR user_id", "x"))
	assert.True(t, errors.Is(err, storage.ErrUnknownField))
}

// TestClickHouseDB_Close tests connection closing
func TestClickHouseDB_Close(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.Close()
	assert.NoError(t, err)

	// Second close should not panic
	err = db.Close()
	assert.NoError(t, err)
}
