package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"micropantry-api/internal/logger"
	"micropantry-api/internal/repository"
)

// RetentionConfig holds configuration for the retention scheduler.
type RetentionConfig struct {
	// DonationRetention is how long donation notes are kept.
	// Default: 30 days
	DonationRetention time.Duration

	// TelemetryRetention is how long stored sensor readings are kept.
	// Default: 30 days
	TelemetryRetention time.Duration

	// Interval is how often the purge runs.
	// Default: 1 hour
	Interval time.Duration

	// InitialDelay postpones the first run after Start.
	InitialDelay time.Duration
}

// RetentionResult reports what one purge removed.
type RetentionResult struct {
	Donations int64 `json:"donations"`
	Readings  int64 `json:"readings"`
}

// RetentionScheduler periodically purges expired donation notes and readings.
type RetentionScheduler struct {
	donations repository.DonationRepository
	telemetry repository.TelemetryRepository
	config    RetentionConfig
	log       zerolog.Logger
	now       func() time.Time
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewRetentionScheduler creates a new retention scheduler. Either repository
// may be nil to skip that purge.
func NewRetentionScheduler(donations repository.DonationRepository, readings repository.TelemetryRepository, config RetentionConfig) *RetentionScheduler {
	if config.DonationRetention == 0 {
		config.DonationRetention = 30 * 24 * time.Hour
	}
	if config.TelemetryRetention == 0 {
		config.TelemetryRetention = 30 * 24 * time.Hour
	}
	if config.Interval == 0 {
		config.Interval = time.Hour
	}

	return &RetentionScheduler{
		donations: donations,
		telemetry: readings,
		config:    config,
		log:       logger.Component("retention"),
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the retention scheduler.
func (s *RetentionScheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.config.Interval)
	s.mu.Unlock()

	s.log.Info().
		Dur("interval", s.config.Interval).
		Dur("donation_retention", s.config.DonationRetention).
		Dur("telemetry_retention", s.config.TelemetryRetention).
		Msg("retention scheduler started")

	go s.run()
}

func (s *RetentionScheduler) run() {
	if s.config.InitialDelay > 0 {
		select {
		case <-time.After(s.config.InitialDelay):
		case <-s.stopCh:
			return
		}
	}
	s.purge()

	for {
		select {
		case <-s.ticker.C:
			s.purge()
		case <-s.stopCh:
			s.log.Info().Msg("retention scheduler stopped")
			return
		}
	}
}

func (s *RetentionScheduler) purge() {
	res, err := s.RunNow()
	if err != nil {
		s.log.Error().Err(err).Msg("retention purge failed")
		return
	}
	if res.Donations > 0 || res.Readings > 0 {
		s.log.Info().Int64("donations", res.Donations).Int64("readings", res.Readings).Msg("purged expired records")
	} else {
		s.log.Debug().Msg("no expired records")
	}
}

// Stop stops the retention scheduler.
func (s *RetentionScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.isRunning = false
	})
}

// RunNow triggers an immediate purge. Both purges are attempted; the first
// error is returned.
func (s *RetentionScheduler) RunNow() (RetentionResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var (
		res      RetentionResult
		firstErr error
	)
	now := s.now()
	if s.donations != nil {
		n, err := s.donations.DeleteOlderThan(ctx, now.Add(-s.config.DonationRetention))
		if err != nil {
			firstErr = err
		}
		res.Donations = n
	}
	if s.telemetry != nil {
		n, err := s.telemetry.DeleteOlderThan(ctx, now.Add(-s.config.TelemetryRetention))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		res.Readings = n
	}
	return res, firstErr
}
