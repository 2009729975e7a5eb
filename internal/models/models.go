package models

// Book represents one tracked book row. Nil pointers are absent values.
type Book struct {
	ID            string  `json:"id"`
	Title         *string `json:"title"`
	BookURL       *string `json:"book_url"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	Rating        *int    `json:"rating"`
	AvgRating     *string `json:"avg_rating"` // numeric column, kept as text
	NumPages      *int    `json:"num_pages"`
	DatePublished *string `json:"date_published"`
	DateAdded     *string `json:"date_added"`
	DateStarted   *string `json:"date_started"`
	DateRead      *string `json:"date_read"`
	Review        *string `json:"review"`
	Shelf         *string `json:"shelf"`
	UserID        *string `json:"user_id"`
}

// FeedItem represents one activity event scraped from the social feed
type FeedItem struct {
	ID              int64   `json:"id"`
	Timestamp       *string `json:"timestamp"`
	UserName        *string `json:"user_name"`
	UserURL         *string `json:"user_url"`
	Action          *string `json:"action"`
	HeaderText      *string `json:"header_text"`
	BookTitle       *string `json:"book_title"`
	BookURL         *string `json:"book_url"`
	Author          *string `json:"author"`
	AuthorURL       *string `json:"author_url"`
	Rating          *int    `json:"rating"`
	BookDescription *string `json:"book_description"`
	TimeAgo         *string `json:"time_ago"`
	UserID          *string `json:"user_id"`
}

// ReadingChallenge represents a user's yearly reading goal
type ReadingChallenge struct {
	Year           int     `json:"year"`
	UserID         string  `json:"user_id"`
	Goal           int     `json:"goal"`
	BooksCompleted int     `json:"books_completed"`
	Percentage     float64 `json:"percentage"`
	BooksAhead     *int    `json:"books_ahead,omitempty"`
	BooksBehind    *int    `json:"books_behind,omitempty"`
	UpdatedAt      *string `json:"updated_at,omitempty"`
}

// Str returns a pointer to s, for building rows in code and tests
func Str(s string) *string {
	return &s
}

// Int returns a pointer to n
func Int(n int) *int {
	return &n
}

// Present returns the value behind p when it is set and non-empty
func Present(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}
