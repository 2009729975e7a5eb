package bot

import (
	"fmt"
	"strings"

	"katalog/internal/models"
)

// maxReadingTimeRows bounds the /stats reading time list
const maxReadingTimeRows = 10

// FormatHelp lists the available commands
func FormatHelp() string {
	return `Welcome to Katalog! 📚

Available commands:
/stats - Library summary
/pages - Pages read per month
/challenge - This year's reading challenge
/feed - Recent activity from your network
/status - When the data was last refreshed
/help - Show this message`
}

// FormatStats summarizes monthly reading, shelves and top authors
func FormatStats(d models.DashboardData) string {
	return strings.Join([]string{
		FormatMonthlyReading(d.MonthlyReading),
		FormatShelves(d.ShelfComposition),
		FormatTopAuthors(d.TopAuthors),
	}, "\n\n")
}

func FormatMonthlyReading(months []models.MonthlyReading) string {
	if len(months) == 0 {
		return "📅 No finished books yet."
	}
	var text strings.Builder
	text.WriteString("📅 Books read per month:\n")
	for _, m := range months {
		fmt.Fprintf(&text, "%s: %d\n", m.Month, m.Count)
	}
	return strings.TrimRight(text.String(), "\n")
}

func FormatShelves(c models.ShelfComposition) string {
	if len(c.Children) == 0 {
		return "📚 No shelved books."
	}
	var text strings.Builder
	text.WriteString("📚 Shelves:\n")
	for _, s := range c.Children {
		fmt.Fprintf(&text, "%s: %d\n", s.Name, s.Loc)
	}
	return strings.TrimRight(text.String(), "\n")
}

func FormatTopAuthors(authors []models.AuthorCount) string {
	if len(authors) == 0 {
		return "✍️ No authors yet."
	}
	var text strings.Builder
	text.WriteString("✍️ Top authors:\n")
	for i, a := range authors {
		fmt.Fprintf(&text, "%d. %s (%d)\n", i+1, a.Author, a.Count)
	}
	return strings.TrimRight(text.String(), "\n")
}

// FormatRatingHeatmap renders the rating grid as one line per user rating
func FormatRatingHeatmap(rows []models.RatingRow) string {
	var text strings.Builder
	text.WriteString("⭐ Your rating vs community rating:\n")
	for _, row := range rows {
		cells := make([]string, 0, len(row.Data))
		for _, c := range row.Data {
			cells = append(cells, fmt.Sprintf("%s=%d", c.X, c.Y))
		}
		fmt.Fprintf(&text, "%s★: %s\n", row.ID, strings.Join(cells, " "))
	}
	return strings.TrimRight(text.String(), "\n")
}

func FormatReadingTime(series []models.ReadingTimeSeries) string {
	var points []models.ReadingTimePoint
	if len(series) > 0 {
		points = series[0].Data
	}
	if len(points) == 0 {
		return "⏱ No books with both added and read dates."
	}

	var text strings.Builder
	text.WriteString("⏱ Longest reads:\n")
	for i, p := range points {
		if i == maxReadingTimeRows {
			break
		}
		title := "Untitled"
		if t, ok := models.Present(p.Title); ok {
			title = t
		}
		fmt.Fprintf(&text, "%d. %s - %s\n", i+1, title, plural(p.Y, "day"))
	}
	return strings.TrimRight(text.String(), "\n")
}

func FormatPages(series []models.PageSeries) string {
	var points []models.PagePoint
	if len(series) > 0 {
		points = series[0].Data
	}
	if len(points) == 0 {
		return "📖 No page counts recorded yet."
	}

	var text strings.Builder
	text.WriteString("📖 Pages read per month:\n")
	for _, p := range points {
		fmt.Fprintf(&text, "%s: %d\n", p.X.Format("January 2006"), p.Y)
	}
	return strings.TrimRight(text.String(), "\n")
}

// FormatChallenge renders the challenge card; nil means no challenge this year
func FormatChallenge(s *models.ChallengeStatus) string {
	if s == nil {
		return "🎯 No reading challenge set for this year."
	}
	return fmt.Sprintf("🎯 %d Reading Challenge: %s\n%s of %d (%d%%)\n%s\n%s",
		s.Year, s.Status,
		s.MessageTitle, s.Goal, s.RoundedPercentage,
		s.MessageSubtitle,
		s.MessageBody,
	)
}

// FormatFeed lists recent activity, skipping rows without text to show
func FormatFeed(d models.FeedData) string {
	var text strings.Builder
	n := 0
	for _, m := range d.FeedMessageList {
		if !m.Displayable() {
			continue
		}
		n++
		line := *m.HeaderText
		if ts, ok := models.Present(m.Timestamp); ok && len(ts) >= len("2006-01-02") {
			line = fmt.Sprintf("%s (%s)", line, ts[:len("2006-01-02")])
		}
		fmt.Fprintf(&text, "%d. %s\n", n, line)
	}
	if n == 0 {
		return "📰 No recent activity."
	}

	out := "📰 Recent activity:\n" + text.String()
	if len(d.Top10BookTitles) > 0 {
		out += "\nMost mentioned: " + strings.Join(d.Top10BookTitles, ", ")
	}
	return strings.TrimRight(out, "\n")
}

func FormatStatus(s models.SyncStatus) string {
	return fmt.Sprintf("🔄 Last refreshed: %s\n⏭ Next scrape: %s", orUnknown(s.LastRefreshed), orUnknown(s.NextScrape))
}

func orUnknown(p *string) string {
	if v, ok := models.Present(p); ok {
		return v
	}
	return "unknown"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
