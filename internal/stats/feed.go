package stats

import (
	"slices"

	"go.uber.org/zap"

	"katalog/internal/models"
)

const (
	// TopBooksLimit is the number of named book columns in the action breakdown
	TopBooksLimit = 9
	// OtherColumn collects breakdown counts for books outside the top list
	OtherColumn = "other"
)

// KnownActions is the action vocabulary the scraper emits
var KnownActions = []string{
	"wants_to_read",
	"currently_reading",
	"started_reading",
	"read",
	"rated",
	"reviewed",
	"added_book",
	"other",
}

// Feed computes every feed statistic. items is the recent activity window,
// messages the short list shown as recent activity.
func Feed(items, messages []models.FeedItem, tally *Tally) models.FeedData {
	actions := Actions(items)
	topBooks := TopBooks(items)

	return models.FeedData{
		ActionBreakdown: ActionBreakdown(items, actions, topBooks),
		CalendarData:    CalendarData(items, tally),
		NetworkActivity: NetworkActivity(items, actions, tally),
		Top10BookTitles: topBooks,
		FeedMessageList: FeedMessages(messages),
	}
}

// Actions returns KnownActions followed by any other action codes present
// in items, in first-seen order
func Actions(items []models.FeedItem) []string {
	actions := slices.Clone(KnownActions)
	for _, item := range items {
		action, ok := models.Present(item.Action)
		if ok && !slices.Contains(actions, action) {
			actions = append(actions, action)
		}
	}
	return actions
}

// TopBooks returns the most mentioned book titles, at most TopBooksLimit.
// Titles with equal counts keep first-seen order. A title spelled like a
// breakdown key never ranks; its items fall into the "other" column.
func TopBooks(items []models.FeedItem) []string {
	titles := newCounter()
	for _, item := range items {
		title, ok := models.Present(item.BookTitle)
		if !ok || title == OtherColumn || title == models.ActionKey {
			continue
		}
		titles.add(title, 1)
	}

	top := titles.top(TopBooksLimit)
	out := make([]string, 0, len(top))
	for _, e := range top {
		out = append(out, e.key)
	}
	return out
}

// ActionBreakdown counts, for every action, the items per top book plus an
// "other" column. Items missing an action or a title are not counted.
func ActionBreakdown(items []models.FeedItem, actions, topBooks []string) []models.ActionBreakdown {
	column := make(map[string]int, len(topBooks)+1)
	for i, title := range topBooks {
		column[title] = i
	}
	otherIndex := len(topBooks)

	grid := make(map[string][]int, len(actions))
	for _, action := range actions {
		grid[action] = make([]int, len(topBooks)+1)
	}

	for _, item := range items {
		action, hasAction := models.Present(item.Action)
		title, hasTitle := models.Present(item.BookTitle)
		if !hasAction || !hasTitle {
			continue
		}
		row, ok := grid[action]
		if !ok {
			continue
		}
		if i, ok := column[title]; ok {
			row[i]++
		} else {
			row[otherIndex]++
		}
	}

	out := make([]models.ActionBreakdown, 0, len(actions))
	for _, action := range actions {
		row := grid[action]
		counts := make([]models.NamedCount, 0, len(row))
		for i, title := range topBooks {
			counts = append(counts, models.NamedCount{Name: title, Count: row[i]})
		}
		counts = append(counts, models.NamedCount{Name: OtherColumn, Count: row[otherIndex]})
		out = append(out, models.ActionBreakdown{Action: action, Counts: counts})
	}
	return out
}

// CalendarData counts items per YYYY-MM-DD day, ascending. Days without
// activity are absent.
func CalendarData(items []models.FeedItem, tally *Tally) []models.CalendarDay {
	days := newCounter()
	for _, item := range items {
		ts, ok := models.Present(item.Timestamp)
		if !ok {
			continue
		}
		day, err := timestampPrefix(ts, len("2006-01-02"))
		if err != nil {
			tally.Skip(StatCalendar, "invalid timestamp", zap.Int64("feed_id", item.ID), zap.Error(err))
			continue
		}
		days.add(day, 1)
	}

	sorted := days.byKey()
	out := make([]models.CalendarDay, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, models.CalendarDay{Day: e.key, Value: e.count})
	}
	return out
}

// NetworkActivity returns, for every month with at least one item, a count
// for each of actions. Months are ascending.
func NetworkActivity(items []models.FeedItem, actions []string, tally *Tally) []models.ActivityStream {
	position := make(map[string]int, len(actions))
	for i, action := range actions {
		position[action] = i
	}

	months := make(map[string][]int)
	for _, item := range items {
		ts, ok := models.Present(item.Timestamp)
		if !ok {
			continue
		}
		month, err := timestampPrefix(ts, len("2006-01"))
		if err != nil {
			tally.Skip(StatNetworkActivity, "invalid timestamp", zap.Int64("feed_id", item.ID), zap.Error(err))
			continue
		}

		row, ok := months[month]
		if !ok {
			row = make([]int, len(actions))
			months[month] = row
		}
		if action, ok := models.Present(item.Action); ok {
			if i, known := position[action]; known {
				row[i]++
			}
		}
	}

	keys := make([]string, 0, len(months))
	for month := range months {
		keys = append(keys, month)
	}
	slices.Sort(keys)

	out := make([]models.ActivityStream, 0, len(keys))
	for _, month := range keys {
		row := months[month]
		counts := make([]models.NamedCount, len(actions))
		for i, action := range actions {
			counts[i] = models.NamedCount{Name: action, Count: row[i]}
		}
		out = append(out, models.ActivityStream{Month: month, Counts: counts})
	}
	return out
}

// FeedMessages projects the recent rows for the activity list. Rows are kept
// as-is; use FeedMessage.Displayable to filter incomplete ones.
func FeedMessages(items []models.FeedItem) []models.FeedMessage {
	out := make([]models.FeedMessage, 0, len(items))
	for _, item := range items {
		out = append(out, models.FeedMessage{
			Action:     item.Action,
			HeaderText: item.HeaderText,
			BookTitle:  item.BookTitle,
			Timestamp:  item.Timestamp,
		})
	}
	return out
}
