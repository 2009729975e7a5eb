package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// MonthlyReading is the number of books finished in one calendar month
type MonthlyReading struct {
	Key   string `json:"key"`   // YYYY-MM
	Month string `json:"month"` // e.g. "April 2025"
	Count int    `json:"count"`
}

// PagePoint is the number of pages finished in one calendar month
type PagePoint struct {
	Key string    `json:"key"`
	X   time.Time `json:"x"`
	Y   int       `json:"y"`
}

// PageSeries is a named line of monthly page sums
type PageSeries struct {
	ID   string      `json:"id"`
	Data []PagePoint `json:"data"`
}

// ReadingTimePoint relates a book's page count to the days it took to read
type ReadingTimePoint struct {
	X     *int    `json:"x"`
	Y     int     `json:"y"`
	Title *string `json:"title"`
}

// ReadingTimeSeries is a named set of reading-duration points
type ReadingTimeSeries struct {
	ID   string             `json:"id"`
	Data []ReadingTimePoint `json:"data"`
}

// ShelfBucket is one shelf in the library composition.
// Loc is the raw count, ScaledLoc the value used for drawing.
type ShelfBucket struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Loc       int    `json:"loc"`
	ScaledLoc int    `json:"scaledLoc"`
}

// ShelfComposition is the shelf tree of the whole library
type ShelfComposition struct {
	Name     string        `json:"name"`
	Children []ShelfBucket `json:"children"`
}

// AuthorCount is the number of books tracked for one author
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// RatingCell counts books in one community-rating bucket
type RatingCell struct {
	X string `json:"x"`
	Y int    `json:"y"`
}

// RatingRow holds all community-rating buckets for one user rating
type RatingRow struct {
	ID   string       `json:"id"`
	Data []RatingCell `json:"data"`
}

// DashboardData bundles every library statistic
type DashboardData struct {
	MonthlyReading   []MonthlyReading    `json:"monthlyReading"`
	MonthlyPages     []PageSeries        `json:"monthlyPages"`
	ReadingTimeData  []ReadingTimeSeries `json:"readingTimeData"`
	ShelfComposition ShelfComposition    `json:"shelfComposition"`
	TopAuthors       []AuthorCount       `json:"topAuthors"`
	RatingHeatmap    []RatingRow         `json:"ratingHeatmap"`
}

// NamedCount is a single labelled counter inside a dense record
type NamedCount struct {
	Name  string
	Count int
}

// ActionKey is the key that names the action in an encoded ActionBreakdown
const ActionKey = "action"

// ActionBreakdown counts one action per top book, with an "other" column.
// It encodes as a flat object: {"action": "rated", "Dune": 15, "other": 0}.
// Book names share the object with ActionKey and the "other" column, so
// callers must keep those names out of Counts except as the catch-all.
type ActionBreakdown struct {
	Action string
	Counts []NamedCount
}

// Get returns the counter for name, or 0
func (a ActionBreakdown) Get(name string) int {
	return lookup(a.Counts, name)
}

func (a ActionBreakdown) MarshalJSON() ([]byte, error) {
	return flatten(ActionKey, a.Action, a.Counts)
}

// CalendarDay is the number of feed events on one day
type CalendarDay struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Value int    `json:"value"`
}

// ActivityStream counts every known action within one month.
// It encodes as a flat object: {"month": "2025-04", "rated": 3, ...}.
type ActivityStream struct {
	Month  string
	Counts []NamedCount
}

// Get returns the counter for action, or 0
func (s ActivityStream) Get(action string) int {
	return lookup(s.Counts, action)
}

func (s ActivityStream) MarshalJSON() ([]byte, error) {
	return flatten("month", s.Month, s.Counts)
}

// FeedMessage is one entry of the recent activity list
type FeedMessage struct {
	Action     *string `json:"action"`
	HeaderText *string `json:"header_text"`
	BookTitle  *string `json:"book_title"`
	Timestamp  *string `json:"timestamp"`
}

// Displayable reports whether the message has the text needed to show it
func (m FeedMessage) Displayable() bool {
	_, hasHeader := Present(m.HeaderText)
	_, hasTitle := Present(m.BookTitle)
	return hasHeader && hasTitle
}

// FeedData bundles every feed statistic
type FeedData struct {
	ActionBreakdown []ActionBreakdown `json:"actionBreakdown"`
	CalendarData    []CalendarDay     `json:"calendarData"`
	NetworkActivity []ActivityStream  `json:"networkActivity"`
	Top10BookTitles []string          `json:"top10BookTitles"`
	FeedMessageList []FeedMessage     `json:"feedMessageList"`
}

// ChallengeState classifies reading-challenge pacing
type ChallengeState string

const (
	ChallengeBehind   ChallengeState = "behind"
	ChallengeOverGoal ChallengeState = "over_goal"
	ChallengeAhead    ChallengeState = "ahead"
	ChallengeOnTrack  ChallengeState = "on_track"
)

// ChallengeStatus is the display projection of the current year's challenge
type ChallengeStatus struct {
	Year                int            `json:"year"`
	Goal                int            `json:"goal"`
	Completed           int            `json:"completed"`
	Percentage          float64        `json:"percentage"`
	RoundedPercentage   int            `json:"roundedPercentage"`
	MainProgress        float64        `json:"mainProgress"`
	ExcessProgress      float64        `json:"excessProgress"`
	BooksLeft           int            `json:"booksLeft"`
	BooksOver           int            `json:"booksOver"`
	MonthsRemaining     int            `json:"monthsRemaining"`
	BooksNeededPerMonth int            `json:"booksNeededPerMonth"`
	State               ChallengeState `json:"state"`
	Status              string         `json:"status"`
	StatusColor         string         `json:"statusColor"`
	ProgressColor       string         `json:"progressColor"`
	MessageTitle        string         `json:"messageTitle"`
	MessageSubtitle     string         `json:"messageSubtitle"`
	MessageBody         string         `json:"messageBody"`
}

// SyncStatus reports when the scraper last refreshed the store
type SyncStatus struct {
	LastRefreshed *string `json:"last_refreshed"`
	NextScrape    *string `json:"next_scrape"`
}

// Overview bundles every dashboard section for a single page render
type Overview struct {
	Dashboard DashboardData    `json:"dashboard"`
	Feed      FeedData         `json:"feed"`
	Challenge *ChallengeStatus `json:"challenge"`
	Status    SyncStatus       `json:"status"`
}

func lookup(counts []NamedCount, name string) int {
	for _, c := range counts {
		if c.Name == name {
			return c.Count
		}
	}
	return 0
}

// flatten writes {"<key>": value, counts...} keeping counter order
func flatten(key, value string, counts []NamedCount) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	k, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)

	for _, c := range counts {
		name, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.Count))
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
