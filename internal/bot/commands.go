package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const statsCallbackPrefix = "stats:"

// Statistics sections offered under /stats
const (
	sectionReading = "reading"
	sectionShelves = "shelves"
	sectionAuthors = "authors"
	sectionRatings = "ratings"
	sectionTime    = "time"
)

const fetchFailedText = "Failed to fetch dashboard data. Please try again later."

// handleStart shows welcome message and available commands
func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.reply(message.Chat.ID, FormatHelp())
}

// handleStats shows the library summary with buttons for the detailed sections
func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) {
	data, err := b.dashboard.Dashboard(ctx, b.defaultUserID)
	if err != nil {
		b.fail(message.Chat.ID, "stats", err)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, FormatStats(data))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Monthly reading", statsCallbackPrefix+sectionReading),
			tgbotapi.NewInlineKeyboardButtonData("📚 Shelves", statsCallbackPrefix+sectionShelves),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Authors", statsCallbackPrefix+sectionAuthors),
			tgbotapi.NewInlineKeyboardButtonData("⭐ Ratings", statsCallbackPrefix+sectionRatings),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏱ Reading time", statsCallbackPrefix+sectionTime),
		),
	)
	b.sendMessage(msg)
}

// handleStatsSection answers a /stats keyboard button
func (b *Bot) handleStatsSection(ctx context.Context, chatID int64, section string) {
	data, err := b.dashboard.Dashboard(ctx, b.defaultUserID)
	if err != nil {
		b.fail(chatID, "stats", err)
		return
	}

	var text string
	switch section {
	case sectionReading:
		text = FormatMonthlyReading(data.MonthlyReading)
	case sectionShelves:
		text = FormatShelves(data.ShelfComposition)
	case sectionAuthors:
		text = FormatTopAuthors(data.TopAuthors)
	case sectionRatings:
		text = FormatRatingHeatmap(data.RatingHeatmap)
	case sectionTime:
		text = FormatReadingTime(data.ReadingTimeData)
	default:
		b.logger.Warn("Unknown stats section", zap.String("section", section))
		return
	}
	b.reply(chatID, text)
}

// handlePages shows monthly page throughput
func (b *Bot) handlePages(ctx context.Context, message *tgbotapi.Message) {
	data, err := b.dashboard.Dashboard(ctx, b.defaultUserID)
	if err != nil {
		b.fail(message.Chat.ID, "pages", err)
		return
	}
	b.reply(message.Chat.ID, FormatPages(data.MonthlyPages))
}

// handleChallenge shows this year's reading challenge
func (b *Bot) handleChallenge(ctx context.Context, message *tgbotapi.Message) {
	status, err := b.dashboard.Challenge(ctx, b.defaultUserID)
	if err != nil {
		b.fail(message.Chat.ID, "challenge", err)
		return
	}
	b.reply(message.Chat.ID, FormatChallenge(status))
}

// handleFeed shows recent network activity
func (b *Bot) handleFeed(ctx context.Context, message *tgbotapi.Message) {
	data, err := b.dashboard.Feed(ctx)
	if err != nil {
		b.fail(message.Chat.ID, "feed", err)
		return
	}
	b.reply(message.Chat.ID, FormatFeed(data))
}

// handleStatus shows when the scraper last ran
func (b *Bot) handleStatus(ctx context.Context, message *tgbotapi.Message) {
	b.reply(message.Chat.ID, FormatStatus(b.dashboard.Status(ctx)))
}

func (b *Bot) fail(chatID int64, command string, err error) {
	b.logger.Error("Command failed", zap.String("command", command), zap.Error(err))
	b.reply(chatID, fetchFailedText)
}
