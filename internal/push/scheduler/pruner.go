package scheduler

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	// DefaultInterval is how often expired tokens are looked for
	DefaultInterval = 24 * time.Hour

	// DefaultMaxAge matches the point after which the messaging provider
	// treats an unrefreshed web token as expired
	DefaultMaxAge = 270 * 24 * time.Hour
)

// Pruner is implemented by usecase.PushUsecase
type Pruner interface {
	PruneStale(maxAge time.Duration) (int64, error)
}

// TokenPruner periodically forgets push tokens whose devices stopped
// re-registering
type TokenPruner struct {
	pruner   Pruner
	clock    clockwork.Clock
	log      *zap.Logger
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

// NewTokenPruner creates a pruner running on the real clock. Zero durations
// select the defaults.
func NewTokenPruner(pruner Pruner, interval, maxAge time.Duration, log *zap.Logger) *TokenPruner {
	return newTokenPruner(pruner, clockwork.NewRealClock(), interval, maxAge, log)
}

func newTokenPruner(pruner Pruner, clock clockwork.Clock, interval, maxAge time.Duration, log *zap.Logger) *TokenPruner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenPruner{
		pruner:   pruner,
		clock:    clock,
		log:      log.Named("pruner"),
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the pruning loop; the first pass runs immediately
func (s *TokenPruner) Start() {
	s.log.Info("starting token pruner",
		zap.Duration("interval", s.interval),
		zap.Duration("max_age", s.maxAge))

	go func() {
		defer close(s.done)
		s.prune()

		ticker := s.clock.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				s.prune()
			case <-s.stopChan:
				s.log.Info("token pruner stopped")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight pass to finish
func (s *TokenPruner) Stop() {
	close(s.stopChan)
	<-s.done
}

func (s *TokenPruner) prune() {
	if _, err := s.pruner.PruneStale(s.maxAge); err != nil {
		s.log.Error("pruning push tokens failed", zap.Error(err))
	}
}
