package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"katalog/internal/api"
	"katalog/internal/bot"
	"katalog/internal/config"
	"katalog/internal/dashboard"
	"katalog/internal/storage"
	"katalog/internal/storage/ch"
	"katalog/internal/storage/pg"
	"katalog/internal/storage/stubs"
)

// App represents the application
type App struct {
	config    *config.Config
	logger    *zap.Logger
	db        storage.Storage
	dashboard *dashboard.Service
	bot       *bot.Bot
	server    *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting Katalog",
		zap.String("environment", cfg.Environment),
		zap.String("default_user_id", cfg.DefaultUserID),
	)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.dashboard = dashboard.New(app.db, logger.Named("dashboard"),
		dashboard.WithFeedLimits(cfg.FeedLimit, cfg.FeedMessageLimit),
	)

	if err := app.initBot(); err != nil {
		return nil, err
	}

	app.initHTTPServer()

	return app, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProductionConfig().Build()
	}
	return zap.NewDevelopmentConfig().Build()
}

// initDatabase initializes the database connection
func (a *App) initDatabase() error {
	tables := storage.TablesFor(a.config.Environment)
	logger := a.logger.Named("storage")

	var db storage.Storage
	switch {
	case a.config.UseMockDB:
		logger.Info("Using mock database")
		db = stubs.NewMockDB()

	case a.config.StoreDriver == config.DriverClickHouse:
		logger.Info("Connecting to ClickHouse",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.String("user", a.config.ClickHouseUser),
			zap.Bool("tls", a.config.ClickHouseUseTLS),
		)
		clickhouseDB, err := ch.NewClickHouseDB(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
			tables,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		db = clickhouseDB

	default:
		dsn, err := pg.DSN(a.config.SupabaseURL, a.config.SupabasePassword)
		if err != nil {
			return fmt.Errorf("failed to build Postgres DSN: %w", err)
		}
		logger.Info("Connecting to Postgres", zap.String("books_table", tables.Books))
		postgresDB, err := pg.NewPostgresDB(dsn, tables)
		if err != nil {
			return err
		}
		db = postgresDB
	}

	ctx := context.Background()
	if err := db.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Database initialized successfully")

	a.db = db
	return nil
}

// initBot initializes the Telegram bot when a token is configured
func (a *App) initBot() error {
	if !a.config.BotEnabled() {
		a.logger.Info("TELEGRAM_BOT_TOKEN not set, bot disabled")
		return nil
	}

	telegramBot, err := bot.NewBot(
		a.config.TelegramToken,
		a.dashboard,
		a.config.AllowedUserIDs,
		a.config.DefaultUserID,
		a.logger.Named("bot"),
	)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.logger.Info("Bot created successfully", zap.Int64s("allowed_users", a.config.AllowedUserIDs))

	a.bot = telegramBot
	return nil
}

// initHTTPServer builds the dashboard API server
func (a *App) initHTTPServer() {
	if a.config.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.RouterConfig{
		Dashboard:     a.dashboard,
		Logger:        a.logger.Named("http"),
		DefaultUserID: a.config.DefaultUserID,
		AllowOrigins:  a.config.AllowedOrigins,
	})

	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is cancelled or the HTTP server fails
func (a *App) RunContext(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if a.bot != nil {
		go func() {
			if err := a.bot.Start(); err != nil {
				a.logger.Error("Bot stopped", zap.Error(err))
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down...")
	case err := <-serverErr:
		a.logger.Error("HTTP server error", zap.Error(err))
		runErr = fmt.Errorf("http server: %w", err)
	}

	if err := a.Shutdown(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	if a.bot != nil {
		a.bot.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing database", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return nil
}
