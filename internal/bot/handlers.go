package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.reply(message.Chat.ID, "An error occurred while processing your request. Please try again.")
		}
	}()

	if !message.IsCommand() {
		return
	}

	ctx := context.Background()
	switch message.Command() {
	case "start", "help":
		b.handleStart(message)
	case "stats":
		b.handleStats(ctx, message)
	case "pages":
		b.handlePages(ctx, message)
	case "challenge":
		b.handleChallenge(ctx, message)
	case "feed":
		b.handleFeed(ctx, message)
	case "status":
		b.handleStatus(ctx, message)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	// Answer the callback query to remove loading state
	if b.api != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			b.logger.Warn("Failed to answer callback query", zap.Error(err))
		}
	}

	if query.Message == nil {
		return
	}

	ctx := context.Background()
	if section, ok := strings.CutPrefix(query.Data, statsCallbackPrefix); ok {
		b.handleStatsSection(ctx, query.Message.Chat.ID, section)
	}
}
