package storage

import (
	"fmt"
	"regexp"
)

// Metadata keys written by the scraper
const (
	MetaLastRefreshed = "last_refreshed"
	MetaNextScrape    = "next_scrape"
)

// TableNames holds the physical table names for one environment
type TableNames struct {
	Books      string
	Feed       string
	Challenges string
	Metadata   string
}

// TablesFor returns the table names used in the given environment.
// Only "production" reads the unsuffixed tables.
func TablesFor(environment string) TableNames {
	names := TableNames{
		Books:      "books",
		Feed:       "feed",
		Challenges: "reading_challenges",
		Metadata:   "metadata",
	}
	if environment == "production" {
		return names
	}
	return TableNames{
		Books:      names.Books + "_dev",
		Feed:       names.Feed + "_dev",
		Challenges: names.Challenges + "_dev",
		Metadata:   names.Metadata + "_dev",
	}
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks that every table name is a plain SQL identifier
func (t TableNames) Validate() error {
	for _, name := range []string{t.Books, t.Feed, t.Challenges, t.Metadata} {
		if !identifier.MatchString(name) {
			return fmt.Errorf("invalid table name %q", name)
		}
	}
	return nil
}

// Column sets, in scan order
var (
	BookColumns = []string{
		"id", "title", "book_url", "author", "isbn", "rating", "avg_rating", "num_pages",
		"date_published", "date_added", "date_started", "date_read", "review", "shelf", "user_id",
	}
	FeedColumns = []string{
		"id", "timestamp", "user_name", "user_url", "action", "header_text", "book_title", "book_url",
		"author", "author_url", "rating", "book_description", "time_ago", "user_id",
	}
	ChallengeColumns = []string{
		"year", "user_id", "goal", "books_completed", "percentage", "books_ahead", "books_behind", "updated_at",
	}
	MetadataColumns = []string{"key", "value"}
)
