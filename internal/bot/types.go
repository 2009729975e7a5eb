package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"katalog/internal/models"
)

// Dashboard is the subset of dashboard pipelines the bot reports on
type Dashboard interface {
	Dashboard(ctx context.Context, userID string) (models.DashboardData, error)
	Feed(ctx context.Context) (models.FeedData, error)
	Challenge(ctx context.Context, userID string) (*models.ChallengeStatus, error)
	Status(ctx context.Context) models.SyncStatus
}

// Sender delivers outgoing messages; *tgbotapi.BotAPI satisfies it
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot represents the Telegram bot wrapper
type Bot struct {
	api           *tgbotapi.BotAPI
	sender        Sender
	dashboard     Dashboard
	allowedUsers  map[int64]bool
	defaultUserID string
	logger        *zap.Logger
}
