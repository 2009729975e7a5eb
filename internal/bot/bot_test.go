package bot

import (
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"katalog/internal/dashboard"
	"katalog/internal/models"
	"katalog/internal/storage"
	"katalog/internal/storage/stubs"
)

// recorder captures outgoing messages instead of calling Telegram
type recorder struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (r *recorder) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		r.sent = append(r.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (r *recorder) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		t.Fatal("Expected a message to be sent")
	}
	return r.sent[len(r.sent)-1]
}

func newTestBot(db *stubs.MockDB) (*Bot, *recorder) {
	svc := dashboard.New(db, zap.NewNop(), dashboard.WithClock(func() time.Time {
		return time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	}))
	rec := &recorder{}
	return newBot(rec, svc, []int64{123}, "42", zap.NewNop()), rec
}

func command(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From:     &tgbotapi.User{ID: userID},
			Chat:     &tgbotapi.Chat{ID: 456},
			Text:     text,
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])}},
		},
	}
}

func seededDB() *stubs.MockDB {
	db := stubs.NewMockDB()
	db.AddBooks(
		models.Book{ID: "1", UserID: models.Str("42"), Title: models.Str("Dune"), Author: models.Str("Frank Herbert"), DateAdded: models.Str("2025-04-01"), DateRead: models.Str("2025-04-15"), NumPages: models.Int(412), Shelf: models.Str("read")},
		models.Book{ID: "2", UserID: models.Str("42"), Title: models.Str("Emma"), Author: models.Str("Jane Austen"), Shelf: models.Str("to_read")},
	)
	db.AddFeed(
		models.FeedItem{ID: 1, Action: models.Str("rated"), HeaderText: models.Str("Ann rated Dune"), BookTitle: models.Str("Dune"), Timestamp: models.Str("2025-06-02T10:00:00Z")},
		models.FeedItem{ID: 2, Action: models.Str("read"), BookTitle: models.Str("Emma"), Timestamp: models.Str("2025-06-01T10:00:00Z")},
	)
	db.AddChallenges(models.ReadingChallenge{Year: 2025, UserID: "42", Goal: 50, BooksCompleted: 10, Percentage: 20, BooksBehind: models.Int(1)})
	db.SetMetadata(storage.MetaLastRefreshed, "2025-06-30T22:00:00Z")
	return db
}

func TestBot_Unauthorized(t *testing.T) {
	bot, rec := newTestBot(seededDB())

	bot.HandleUpdate(command(999, "/stats"))

	if got := rec.last(t).Text; got != "Sorry, you are not authorized to use this bot." {
		t.Errorf("Unexpected reply %q", got)
	}
}

func TestBot_Commands(t *testing.T) {
	testCases := []struct {
		command  string
		contains []string
	}{
		{command: "/start", contains: []string{"/stats", "/challenge", "/feed"}},
		{command: "/help", contains: []string{"/status"}},
		{command: "/stats", contains: []string{"April 2025: 1", "Read: 1", "To Be Read: 1", "1. Frank Herbert (1)"}},
		{command: "/pages", contains: []string{"April 2025: 412"}},
		{command: "/challenge", contains: []string{"Behind schedule", "10 books read of 50 (20%)", "Read 7 books per month for the next 6 months"}},
		{command: "/feed", contains: []string{"1. Ann rated Dune (2025-06-02)", "Most mentioned: Dune, Emma"}},
		{command: "/status", contains: []string{"Last refreshed: 2025-06-30T22:00:00Z", "Next scrape: unknown"}},
		{command: "/nope", contains: []string{"Unknown command"}},
	}

	for _, tc := range testCases {
		t.Run(tc.command, func(t *testing.T) {
			bot, rec := newTestBot(seededDB())

			bot.HandleUpdate(command(123, tc.command))

			text := rec.last(t).Text
			for _, want := range tc.contains {
				if !strings.Contains(text, want) {
					t.Errorf("Expected reply to contain %q, got:\n%s", want, text)
				}
			}
		})
	}
}

func TestBot_StatsKeyboard(t *testing.T) {
	bot, rec := newTestBot(seededDB())

	bot.HandleUpdate(command(123, "/stats"))

	markup, ok := rec.last(t).ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatal("Expected an inline keyboard")
	}
	buttons := 0
	for _, row := range markup.InlineKeyboard {
		buttons += len(row)
	}
	if buttons != 5 {
		t.Errorf("Expected 5 section buttons, got %d", buttons)
	}
}

func TestBot_StatsCallback(t *testing.T) {
	bot, rec := newTestBot(seededDB())

	bot.HandleUpdate(tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: 123},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 456}},
			Data:    statsCallbackPrefix + sectionTime,
		},
	})

	text := rec.last(t).Text
	if !strings.Contains(text, "1. Dune - 15 days") {
		t.Errorf("Unexpected reading time reply:\n%s", text)
	}
}

func TestBot_FetchFailure(t *testing.T) {
	db := seededDB()
	db.Err = stubs.ErrMockUnavailable
	bot, rec := newTestBot(db)

	bot.HandleUpdate(command(123, "/challenge"))

	if got := rec.last(t).Text; got != fetchFailedText {
		t.Errorf("Expected failure reply, got %q", got)
	}
}

func TestFormatChallenge_None(t *testing.T) {
	if got := FormatChallenge(nil); !strings.Contains(got, "No reading challenge") {
		t.Errorf("Unexpected text %q", got)
	}
}

func TestFormatFeed_SkipsIncompleteMessages(t *testing.T) {
	data := models.FeedData{
		FeedMessageList: []models.FeedMessage{
			{HeaderText: models.Str("Bo wants to read Ubik")},
			{BookTitle: models.Str("Ubik")},
		},
	}

	if got := FormatFeed(data); got != "📰 No recent activity." {
		t.Errorf("Unexpected text %q", got)
	}
}

func TestFormatRatingHeatmap(t *testing.T) {
	rows := []models.RatingRow{
		{ID: "5", Data: []models.RatingCell{{X: "3-4", Y: 0}, {X: "4-5", Y: 2}}},
	}

	want := "⭐ Your rating vs community rating:\n5★: 3-4=0 4-5=2"
	if got := FormatRatingHeatmap(rows); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
