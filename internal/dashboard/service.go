package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"katalog/internal/models"
	"katalog/internal/stats"
	"katalog/internal/storage"
)

const (
	DefaultFeedLimit        = 2000
	DefaultFeedMessageLimit = 10
)

// Service runs the dashboard pipelines against a row source
type Service struct {
	db     storage.Storage
	logger *zap.Logger
	now    func() time.Time

	feedLimit    int
	messageLimit int
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the wall clock used for challenge pacing
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithFeedLimits sets how many feed rows feed statistics and the message list see
func WithFeedLimits(feed, messages int) Option {
	return func(s *Service) {
		if feed > 0 {
			s.feedLimit = feed
		}
		if messages > 0 {
			s.messageLimit = messages
		}
	}
}

// New creates a dashboard service
func New(db storage.Storage, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		db:           db,
		logger:       logger,
		now:          time.Now,
		feedLimit:    DefaultFeedLimit,
		messageLimit: DefaultFeedMessageLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard computes the library statistics for userID, or for every book
// when userID is empty
func (s *Service) Dashboard(ctx context.Context, userID string) (models.DashboardData, error) {
	books, err := s.db.FetchBooks(ctx, byUser(storage.Query{}, userID))
	if err != nil {
		return models.DashboardData{}, fmt.Errorf("failed to fetch books: %w", err)
	}

	tally := stats.NewTally(s.logger)
	data := stats.Library(books, tally)
	s.report("dashboard", len(books), tally)
	return data, nil
}

// Feed computes the feed statistics over the most recent rows. Feed rows
// belong to the scraped network, not to a user, so they are never filtered.
func (s *Service) Feed(ctx context.Context) (models.FeedData, error) {
	recent := storage.Query{}.OrderBy("timestamp", true)

	var items, messages []models.FeedItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.db.FetchFeed(gctx, recent.WithLimit(s.feedLimit))
		if err != nil {
			return fmt.Errorf("failed to fetch feed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		messages, err = s.db.FetchFeed(gctx, recent.WithLimit(s.messageLimit))
		if err != nil {
			return fmt.Errorf("failed to fetch feed messages: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.FeedData{}, err
	}

	tally := stats.NewTally(s.logger)
	data := stats.Feed(items, messages, tally)
	s.report("feed", len(items), tally)
	return data, nil
}

// Challenge returns the current year's challenge status. It returns nil
// without an error when no challenge is stored for the year.
func (s *Service) Challenge(ctx context.Context, userID string) (*models.ChallengeStatus, error) {
	now := s.now()
	q := byUser(storage.Query{}.Eq("year", now.Year()), userID).WithLimit(1)

	challenges, err := s.db.FetchChallenges(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenge: %w", err)
	}
	if len(challenges) == 0 {
		s.logger.Debug("No reading challenge", zap.Int("year", now.Year()), zap.String("user_id", userID))
		return nil, nil
	}

	status := stats.Challenge(challenges[0], now)
	return &status, nil
}

// Status reports the scraper timestamps. Missing or unreadable keys are null.
func (s *Service) Status(ctx context.Context) models.SyncStatus {
	return models.SyncStatus{
		LastRefreshed: s.metadata(ctx, storage.MetaLastRefreshed),
		NextScrape:    s.metadata(ctx, storage.MetaNextScrape),
	}
}

// Overview runs every pipeline concurrently
func (s *Service) Overview(ctx context.Context, userID string) (models.Overview, error) {
	var overview models.Overview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview.Dashboard, err = s.Dashboard(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		overview.Feed, err = s.Feed(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		overview.Challenge, err = s.Challenge(gctx, userID)
		return err
	})
	g.Go(func() error {
		overview.Status = s.Status(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Overview{}, err
	}
	return overview, nil
}

func (s *Service) metadata(ctx context.Context, key string) *string {
	value, err := s.db.FetchMetadata(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Warn("Metadata key not set", zap.String("key", key))
		return nil
	case err != nil:
		s.logger.Warn("Failed to fetch metadata", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &value
}

func (s *Service) report(pipeline string, rows int, tally *stats.Tally) {
	if tally.Total() == 0 {
		return
	}
	s.logger.Info("Skipped malformed rows",
		zap.String("pipeline", pipeline),
		zap.Int("rows", rows),
		zap.Int("skipped", tally.Total()),
		zap.Any("by_stat", tally.Skipped()),
	)
}

func byUser(q storage.Query, userID string) storage.Query {
	if userID == "" {
		return q
	}
	return q.Eq("user_id", userID)
}
