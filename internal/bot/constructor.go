package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// NewBot creates a new Telegram bot. Commands report on defaultUserID.
func NewBot(token string, dashboard Dashboard, allowedUserIDs []int64, defaultUserID string, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	b := newBot(api, dashboard, allowedUserIDs, defaultUserID, logger)
	b.api = api
	return b, nil
}

func newBot(sender Sender, dashboard Dashboard, allowedUserIDs []int64, defaultUserID string, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowedUsers := make(map[int64]bool)
	for _, id := range allowedUserIDs {
		allowedUsers[id] = true
	}

	return &Bot{
		sender:        sender,
		dashboard:     dashboard,
		allowedUsers:  allowedUsers,
		defaultUserID: defaultUserID,
		logger:        logger,
	}
}
