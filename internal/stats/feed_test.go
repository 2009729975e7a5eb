package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"katalog/internal/models"
)

func feedItem(id int64, action, title, ts string) models.FeedItem {
	item := models.FeedItem{ID: id}
	if action != "" {
		item.Action = models.Str(action)
	}
	if title != "" {
		item.BookTitle = models.Str(title)
	}
	if ts != "" {
		item.Timestamp = models.Str(ts)
	}
	return item
}

func TestFeed_DuneExample(t *testing.T) {
	items := make([]models.FeedItem, 0, 18)
	for i := range 15 {
		items = append(items, feedItem(int64(i), "rated", "Dune", "2025-03-01T10:00:00Z"))
	}
	for i := range 3 {
		items = append(items, feedItem(int64(100+i), "rated", "Hyperion", "2025-03-02T10:00:00Z"))
	}

	data := Feed(items, nil, NewTally(zap.NewNop()))

	assert.Equal(t, []string{"Dune", "Hyperion"}, data.Top10BookTitles)

	var rated *models.ActionBreakdown
	for i := range data.ActionBreakdown {
		if data.ActionBreakdown[i].Action == "rated" {
			rated = &data.ActionBreakdown[i]
		}
	}
	require.NotNil(t, rated)
	assert.Equal(t, 15, rated.Get("Dune"))
	assert.Equal(t, 3, rated.Get("Hyperion"))
	assert.Equal(t, 0, rated.Get(OtherColumn))

	assert.NotNil(t, data.FeedMessageList)
	assert.Empty(t, data.FeedMessageList)
}

func TestTopBooks(t *testing.T) {
	items := make([]models.FeedItem, 0)
	// Twelve titles, counts 12 down to 1, inserted in ascending count order
	for n := 1; n <= 12; n++ {
		for range n {
			items = append(items, feedItem(0, "read", fmt.Sprintf("Book %02d", n), ""))
		}
	}
	items = append(items, feedItem(0, "read", "", ""))

	got := TopBooks(items)

	require.Len(t, got, TopBooksLimit)
	assert.Equal(t, "Book 12", got[0])
	assert.Equal(t, "Book 04", got[TopBooksLimit-1])
}

func TestTopBooks_TiesKeepFirstSeenOrder(t *testing.T) {
	items := []models.FeedItem{
		feedItem(1, "read", "Solaris", ""),
		feedItem(2, "read", "Ubik", ""),
		feedItem(3, "read", "Ubik", ""),
		feedItem(4, "read", "Kindred", ""),
		feedItem(5, "read", "Solaris", ""),
	}

	assert.Equal(t, []string{"Solaris", "Ubik", "Kindred"}, TopBooks(items))
}

func TestTopBooks_SkipsBreakdownKeys(t *testing.T) {
	items := []models.FeedItem{
		feedItem(1, "read", "other", ""),
		feedItem(2, "read", "other", ""),
		feedItem(3, "rated", "action", ""),
		feedItem(4, "read", "Ubik", ""),
	}

	top := TopBooks(items)
	assert.Equal(t, []string{"Ubik"}, top)

	breakdown := ActionBreakdown(items, []string{"read", "rated"}, top)
	require.Len(t, breakdown, 2)
	assert.Equal(t, 1, breakdown[0].Get("Ubik"))
	assert.Equal(t, 2, breakdown[0].Get(OtherColumn))
	assert.Equal(t, 1, breakdown[1].Get(OtherColumn))

	encoded, err := breakdown[1].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"rated","Ubik":0,"other":1}`, string(encoded))
}

func TestActions(t *testing.T) {
	items := []models.FeedItem{
		feedItem(1, "rated", "A", ""),
		feedItem(2, "liked_quote", "A", ""),
		feedItem(3, "", "A", ""),
		feedItem(4, "liked_quote", "B", ""),
		feedItem(5, "joined_group", "", ""),
	}

	got := Actions(items)

	assert.Equal(t, append(append([]string{}, KnownActions...), "liked_quote", "joined_group"), got)
	assert.Len(t, KnownActions, 8)
}

func TestActionBreakdown(t *testing.T) {
	items := []models.FeedItem{
		feedItem(1, "read", "Dune", ""),
		feedItem(2, "read", "Emma", ""),
		feedItem(3, "rated", "Dune", ""),
		feedItem(4, "read", "", ""),
		feedItem(5, "", "Dune", ""),
		feedItem(6, "mystery", "Dune", ""),
	}
	actions := Actions(items)

	rows := ActionBreakdown(items, actions, []string{"Dune"})

	require.Len(t, rows, len(actions))
	total := 0
	for _, row := range rows {
		assert.Len(t, row.Counts, 2)
		assert.Equal(t, OtherColumn, row.Counts[1].Name)
		for _, c := range row.Counts {
			total += c.Count
		}
		switch row.Action {
		case "read":
			assert.Equal(t, 1, row.Get("Dune"))
			assert.Equal(t, 1, row.Get(OtherColumn))
		case "rated", "mystery":
			assert.Equal(t, 1, row.Get("Dune"))
		}
	}
	// Items 4 and 5 lack a title or an action
	assert.Equal(t, 4, total)
}

func TestCalendarData(t *testing.T) {
	items := []models.FeedItem{
		feedItem(1, "read", "A", "2025-03-02T10:00:00Z"),
		feedItem(2, "read", "A", "2025-03-01T23:00:00Z"),
		feedItem(3, "read", "A", "2025-03-02 08:00:00+00"),
		feedItem(4, "read", "A", "garbage"),
		feedItem(5, "read", "A", "2025-13-01T00:00:00Z"),
		feedItem(6, "read", "A", ""),
	}
	tally := NewTally(zap.NewNop())

	got := CalendarData(items, tally)

	assert.Equal(t, []models.CalendarDay{
		{Day: "2025-03-01", Value: 1},
		{Day: "2025-03-02", Value: 2},
	}, got)
	assert.Equal(t, 2, tally.Skipped()[StatCalendar])
}

func TestNetworkActivity(t *testing.T) {
	items := []models.FeedItem{
		feedItem(1, "read", "A", "2025-04-10T10:00:00Z"),
		feedItem(2, "rated", "A", "2025-03-02T10:00:00Z"),
		feedItem(3, "read", "B", "2025-03-05T10:00:00Z"),
		feedItem(4, "", "B", "2025-03-06T10:00:00Z"),
		feedItem(5, "read", "B", "bad"),
	}
	actions := Actions(items)
	tally := NewTally(zap.NewNop())

	streams := NetworkActivity(items, actions, tally)

	require.Len(t, streams, 2)
	assert.Equal(t, "2025-03", streams[0].Month)
	assert.Equal(t, "2025-04", streams[1].Month)
	for _, s := range streams {
		assert.Len(t, s.Counts, len(actions))
	}
	assert.Equal(t, 1, streams[0].Get("read"))
	assert.Equal(t, 1, streams[0].Get("rated"))
	assert.Equal(t, 0, streams[0].Get("reviewed"))
	assert.Equal(t, 1, streams[1].Get("read"))
	assert.Equal(t, 1, tally.Skipped()[StatNetworkActivity])
}

func TestFeedMessages(t *testing.T) {
	items := []models.FeedItem{
		{ID: 1, Action: models.Str("read"), HeaderText: models.Str("Ann read"), BookTitle: models.Str("Dune"), Timestamp: models.Str("2025-03-01")},
		{ID: 2, Action: models.Str("rated")},
	}

	got := FeedMessages(items)

	require.Len(t, got, 2)
	assert.True(t, got[0].Displayable())
	assert.False(t, got[1].Displayable())
	assert.Equal(t, "Ann read", *got[0].HeaderText)
}
