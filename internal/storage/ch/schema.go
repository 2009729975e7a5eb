package ch

import (
	"context"
	"fmt"
)

// CreateTables creates the dashboard tables when they are missing.
// Production schemas are managed by migrations; this is used by the dev
// runner and integration tests.
func (db *ClickHouseDB) CreateTables(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			"id" String,
			"title" Nullable(String),
			"book_url" Nullable(String),
			"author" Nullable(String),
			"isbn" Nullable(String),
			"rating" Nullable(Int32),
			"avg_rating" Nullable(String),
			"num_pages" Nullable(Int32),
			"date_published" Nullable(String),
			"date_added" Nullable(String),
			"date_started" Nullable(String),
			"date_read" Nullable(String),
			"review" Nullable(String),
			"shelf" Nullable(String),
			"user_id" Nullable(String)
		) ENGINE = MergeTree()
		ORDER BY id`, db.tables.Books),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			"id" Int64,
			"timestamp" Nullable(String),
			"user_name" Nullable(String),
			"user_url" Nullable(String),
			"action" Nullable(String),
			"header_text" Nullable(String),
			"book_title" Nullable(String),
			"book_url" Nullable(String),
			"author" Nullable(String),
			"author_url" Nullable(String),
			"rating" Nullable(Int32),
			"book_description" Nullable(String),
			"time_ago" Nullable(String),
			"user_id" Nullable(String)
		) ENGINE = MergeTree()
		ORDER BY id`, db.tables.Feed),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			"year" Int32,
			"user_id" String,
			"goal" Int32,
			"books_completed" Int32,
			"percentage" Float64,
			"books_ahead" Nullable(Int32),
			"books_behind" Nullable(Int32),
			"updated_at" Nullable(String)
		) ENGINE = ReplacingMergeTree()
		ORDER BY (user_id, year)`, db.tables.Challenges),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			"key" String,
			"value" String
		) ENGINE = ReplacingMergeTree()
		ORDER BY key`, db.tables.Metadata),
	}

	for _, stmt := range statements {
		if err := db.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// DropTables removes the dashboard tables
func (db *ClickHouseDB) DropTables(ctx context.Context) error {
	for _, table := range []string{db.tables.Books, db.tables.Feed, db.tables.Challenges, db.tables.Metadata} {
		if err := db.conn.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
