package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ContactCleaner removes cached contact records older than the retention
// window. Contacts still referenced by a conversation are kept.
type ContactCleaner interface {
	CleanupOldContacts(ctx context.Context, retentionDays int) error
}

// MediaCleaner removes stored media files older than the given age.
type MediaCleaner interface {
	CleanupOldFiles(maxAge time.Duration) error
}

// Scheduler runs retention cleanup on a fixed interval.
type Scheduler struct {
	contacts      ContactCleaner
	media         MediaCleaner
	logger        *logrus.Logger
	interval      time.Duration
	retentionDays int

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewScheduler creates a cleanup scheduler. Either cleaner may be nil, in
// which case that cleanup step is skipped.
func NewScheduler(contacts ContactCleaner, media MediaCleaner, logger *logrus.Logger, interval time.Duration, retentionDays int) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		contacts:      contacts,
		media:         media,
		logger:        logger,
		interval:      interval,
		retentionDays: retentionDays,
		stopCh:        make(chan struct{}),
	}
}

// Start begins periodic cleanup. It blocks until the context is cancelled
// or Stop is called; run it in a goroutine. One cleanup pass runs
// immediately on start.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.WithFields(logrus.Fields{
		"interval":       s.interval.String(),
		"retention_days": s.retentionDays,
	}).Info("Starting maintenance scheduler")

	s.runCleanup(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Maintenance scheduler stopped due to context cancellation")
			return
		case <-s.stopCh:
			s.logger.Info("Maintenance scheduler stopped")
			return
		case <-ticker.C:
			s.runCleanup(ctx)
		}
	}
}

// Stop terminates the scheduler. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	if s.contacts != nil {
		if err := s.contacts.CleanupOldContacts(ctx, s.retentionDays); err != nil {
			s.logger.WithError(err).Error("Failed to clean up old contacts")
		}
	}
	if s.media != nil {
		maxAge := time.Duration(s.retentionDays) * 24 * time.Hour
		if err := s.media.CleanupOldFiles(maxAge); err != nil {
			s.logger.WithError(err).Error("Failed to clean up old media files")
		}
	}
}
