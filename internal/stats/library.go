package stats

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"katalog/internal/models"
)

const (
	// MonthlyReadingWindow is how many months the reading velocity chart shows
	MonthlyReadingWindow = 8
	// MonthlyPagesWindow is how many months the page throughput chart shows
	MonthlyPagesWindow = 6
	// TopAuthorsLimit is the size of the author ranking
	TopAuthorsLimit = 5
)

// Shelf keys
const (
	ShelfRead             = "read"
	ShelfToRead           = "to-read"
	ShelfCurrentlyReading = "currently-reading"
	ShelfOther            = "other"
)

var shelfNames = map[string]string{
	ShelfRead:             "Read",
	ShelfToRead:           "To Be Read",
	ShelfCurrentlyReading: "Currently Reading",
	ShelfOther:            "Other",
}

// RatingBuckets are the community-rating bands, each closed on its upper bound
var RatingBuckets = []string{"0-1", "1-2", "2-3", "3-4", "4-5"}

// Library computes every library statistic over the same book set
func Library(books []models.Book, tally *Tally) models.DashboardData {
	return models.DashboardData{
		MonthlyReading:   MonthlyReading(books, tally),
		MonthlyPages:     MonthlyPages(books, tally),
		ReadingTimeData:  ReadingTime(books, tally),
		ShelfComposition: ShelfComposition(books),
		TopAuthors:       TopAuthors(books),
		RatingHeatmap:    RatingHeatmap(books, tally),
	}
}

// MonthlyReading counts finished books per month. Months are sorted
// ascending and the first MonthlyReadingWindow are kept.
func MonthlyReading(books []models.Book, tally *Tally) []models.MonthlyReading {
	months := newCounter()
	for _, book := range books {
		if book.DateRead == nil {
			continue
		}
		read, err := ParseDate(*book.DateRead)
		if err != nil {
			tally.Skip(StatMonthlyReading, "invalid date_read", zap.String("book_id", book.ID), zap.Error(err))
			continue
		}
		months.add(MonthKey(read), 1)
	}

	sorted := months.byKey()
	if len(sorted) > MonthlyReadingWindow {
		sorted = sorted[:MonthlyReadingWindow]
	}

	out := make([]models.MonthlyReading, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, models.MonthlyReading{
			Key:   e.key,
			Month: monthStart(e.key).Format("January 2006"),
			Count: e.count,
		})
	}
	return out
}

// MonthlyPages sums the pages of finished books per month. Months are
// sorted ascending and the first MonthlyPagesWindow are kept.
func MonthlyPages(books []models.Book, tally *Tally) []models.PageSeries {
	months := newCounter()
	for _, book := range books {
		if book.DateRead == nil || book.NumPages == nil || *book.NumPages <= 0 {
			continue
		}
		read, err := ParseDate(*book.DateRead)
		if err != nil {
			tally.Skip(StatMonthlyPages, "invalid date_read", zap.String("book_id", book.ID), zap.Error(err))
			continue
		}
		months.add(MonthKey(read), *book.NumPages)
	}

	sorted := months.byKey()
	if len(sorted) > MonthlyPagesWindow {
		sorted = sorted[:MonthlyPagesWindow]
	}

	points := make([]models.PagePoint, 0, len(sorted))
	for _, e := range sorted {
		points = append(points, models.PagePoint{Key: e.key, X: monthStart(e.key), Y: e.count})
	}
	return []models.PageSeries{{ID: "data", Data: points}}
}

// ReadingTime returns one point per book with both date_added and date_read,
// measuring inclusive days between them. Points are sorted by days, longest first.
func ReadingTime(books []models.Book, tally *Tally) []models.ReadingTimeSeries {
	points := make([]models.ReadingTimePoint, 0)
	for _, book := range books {
		if book.DateAdded == nil || book.DateRead == nil {
			continue
		}
		added, err := ParseDate(*book.DateAdded)
		if err != nil {
			tally.Skip(StatReadingTime, "invalid date_added", zap.String("book_id", book.ID), zap.Error(err))
			continue
		}
		read, err := ParseDate(*book.DateRead)
		if err != nil {
			tally.Skip(StatReadingTime, "invalid date_read", zap.String("book_id", book.ID), zap.Error(err))
			continue
		}

		// Same-day start and finish counts as one day
		days := int(math.Floor(midnight(read).Sub(midnight(added)).Hours()/24)) + 1
		if days <= 0 {
			continue
		}
		points = append(points, models.ReadingTimePoint{X: book.NumPages, Y: days, Title: book.Title})
	}

	slices.SortStableFunc(points, func(a, b models.ReadingTimePoint) int {
		return b.Y - a.Y
	})
	return []models.ReadingTimeSeries{{ID: "Books", Data: points}}
}

// ShelfComposition classifies books by shelf. Any shelf value other than the
// three known ones, including an empty one, counts as other. When the largest
// shelf holds more books than all other shelves together, its ScaledLoc is
// capped to that sum so the smaller shelves stay visible.
func ShelfComposition(books []models.Book) models.ShelfComposition {
	counts := map[string]int{}
	for _, book := range books {
		if book.Shelf == nil {
			continue
		}
		switch *book.Shelf {
		case "read":
			counts[ShelfRead]++
		case "to_read":
			counts[ShelfToRead]++
		case "currently_reading":
			counts[ShelfCurrentlyReading]++
		default:
			counts[ShelfOther]++
		}
	}

	children := make([]models.ShelfBucket, 0, 4)
	total, maxIndex := 0, -1
	for _, key := range []string{ShelfRead, ShelfToRead, ShelfCurrentlyReading, ShelfOther} {
		n := counts[key]
		if n == 0 {
			continue
		}
		children = append(children, models.ShelfBucket{Key: key, Name: shelfNames[key], Loc: n, ScaledLoc: n})
		total += n
		if maxIndex < 0 || n > children[maxIndex].Loc {
			maxIndex = len(children) - 1
		}
	}

	if maxIndex >= 0 {
		others := total - children[maxIndex].Loc
		if children[maxIndex].Loc > others {
			children[maxIndex].ScaledLoc = others
		}
	}

	return models.ShelfComposition{Name: "library", Children: children}
}

// TopAuthors ranks authors by number of books, keeping the first TopAuthorsLimit.
// Authors with equal counts keep the order they were first seen in.
func TopAuthors(books []models.Book) []models.AuthorCount {
	authors := newCounter()
	for _, book := range books {
		if author, ok := models.Present(book.Author); ok {
			authors.add(author, 1)
		}
	}

	top := authors.top(TopAuthorsLimit)
	out := make([]models.AuthorCount, 0, len(top))
	for _, e := range top {
		out = append(out, models.AuthorCount{Author: e.key, Count: e.count})
	}
	return out
}

// RatingHeatmap cross-tabulates user rating (1-5) against community rating
// bucket. The grid is always complete.
func RatingHeatmap(books []models.Book, tally *Tally) []models.RatingRow {
	grid := [5][5]int{}
	for _, book := range books {
		if book.Rating == nil || book.AvgRating == nil {
			continue
		}
		user := *book.Rating
		if user < 1 || user > 5 {
			tally.Skip(StatRatingHeatmap, "user rating out of range", zap.String("book_id", book.ID), zap.Int("rating", user))
			continue
		}
		community, err := strconv.ParseFloat(strings.TrimSpace(*book.AvgRating), 64)
		if err != nil || math.IsNaN(community) {
			tally.Skip(StatRatingHeatmap, "invalid avg_rating", zap.String("book_id", book.ID), zap.String("avg_rating", *book.AvgRating))
			continue
		}
		bucket, ok := communityBucket(community)
		if !ok {
			tally.Skip(StatRatingHeatmap, "avg_rating out of range", zap.String("book_id", book.ID), zap.Float64("avg_rating", community))
			continue
		}
		grid[user-1][bucket]++
	}

	rows := make([]models.RatingRow, 0, 5)
	for i := range grid {
		cells := make([]models.RatingCell, 0, len(RatingBuckets))
		for j, label := range RatingBuckets {
			cells = append(cells, models.RatingCell{X: label, Y: grid[i][j]})
		}
		rows = append(rows, models.RatingRow{ID: strconv.Itoa(i + 1), Data: cells})
	}
	return rows
}

// communityBucket returns the index into RatingBuckets for rating.
// Boundary values fall into the lower band, so 0 and 1 are both "0-1".
func communityBucket(rating float64) (int, bool) {
	if rating < 0 || rating > 5 {
		return 0, false
	}
	for i := range RatingBuckets {
		if rating <= float64(i+1) {
			return i, true
		}
	}
	return 0, false
}
