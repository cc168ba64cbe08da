package adapter

import (
	"errors"
	"sync"
	"time"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
)

// ErrFeedSuspended is returned while a feed's breaker is cooling down
var ErrFeedSuspended = errors.New("feed temporarily suspended after repeated failures")

// FeedBreaker suspends calls to one feed after repeated consecutive
// failures so a broken backend does not burn the request budget that the
// healthy feeds share. After the cooldown a single probe call is let
// through; its outcome either resumes the feed or restarts the cooldown.
type FeedBreaker struct {
	feed        string
	maxFailures int
	cooldown    time.Duration
	logger      *logging.Logger

	mu        sync.Mutex
	failures  int
	suspended bool
	probing   bool
	resumeAt  time.Time
}

// NewFeedBreaker creates a breaker for the named feed
func NewFeedBreaker(feed string, maxFailures int, cooldown time.Duration, logger *logging.Logger) *FeedBreaker {
	return &FeedBreaker{
		feed:        feed,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		logger:      logger,
	}
}

// Call runs fn unless the feed is suspended
func (b *FeedBreaker) Call(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn()
	b.after(err)
	return err
}

func (b *FeedBreaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.suspended {
		return nil
	}
	if time.Now().Before(b.resumeAt) || b.probing {
		return ErrFeedSuspended
	}
	// Cooldown elapsed: let exactly one probe through.
	b.probing = true
	return nil
}

func (b *FeedBreaker) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.suspended && b.logger != nil {
			b.logger.WithField("feed", b.feed).Info("Feed resumed after cooldown")
		}
		b.failures = 0
		b.suspended = false
		b.probing = false
		return
	}

	if b.probing {
		// Probe failed, restart the cooldown.
		b.probing = false
		b.resumeAt = time.Now().Add(b.cooldown)
		return
	}

	b.failures++
	if b.failures >= b.maxFailures && !b.suspended {
		b.suspended = true
		b.resumeAt = time.Now().Add(b.cooldown)
		if b.logger != nil {
			b.logger.WithFields(map[string]interface{}{
				"feed":     b.feed,
				"failures": b.failures,
				"cooldown": b.cooldown,
			}).Warn("Feed suspended after repeated failures")
		}
	}
}

// Suspended reports whether the feed is currently suspended
func (b *FeedBreaker) Suspended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suspended && time.Now().Before(b.resumeAt)
}
