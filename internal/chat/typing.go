package chat

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// TypingSimulator periodically flips the typing indicator of the active
// conversation to mimic a contact composing a reply. It is cosmetic only
// and never touches message or summary state.
type TypingSimulator struct {
	store    *Store
	logger   *logrus.Logger
	interval time.Duration
	rng      *rand.Rand

	stopCh   chan struct{}
	stopOnce sync.Once

	// currently toggled conversation, cleared when the indicator drops
	mu      sync.Mutex
	current string
}

// NewTypingSimulator creates a simulator that wakes every interval.
func NewTypingSimulator(store *Store, logger *logrus.Logger, interval time.Duration) *TypingSimulator {
	if interval <= 0 {
		interval = 8 * time.Second
	}
	return &TypingSimulator{
		store:    store,
		logger:   logger,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		stopCh:   make(chan struct{}),
	}
}

// Start runs the simulation loop until the context is cancelled or Stop is
// called. It blocks; run it in a goroutine.
func (ts *TypingSimulator) Start(ctx context.Context) {
	ts.logger.WithField("interval", ts.interval.String()).Info("Starting typing simulator")

	ticker := time.NewTicker(ts.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ts.clearCurrent()
			ts.logger.Info("Typing simulator stopped due to context cancellation")
			return
		case <-ts.stopCh:
			ts.clearCurrent()
			ts.logger.Info("Typing simulator stopped")
			return
		case <-ticker.C:
			ts.tick()
		}
	}
}

// Stop terminates the simulation loop. Safe to call more than once.
func (ts *TypingSimulator) Stop() {
	ts.stopOnce.Do(func() {
		close(ts.stopCh)
	})
}

// tick drops any indicator raised on a previous tick, then raises one on the
// active conversation roughly a third of the time.
func (ts *TypingSimulator) tick() {
	ts.clearCurrent()

	activeID := ts.store.ActiveID()
	if activeID == "" {
		return
	}
	if ts.rng.Intn(3) != 0 {
		return
	}

	ts.store.SetTyping(activeID, true)
	ts.mu.Lock()
	ts.current = activeID
	ts.mu.Unlock()
}

func (ts *TypingSimulator) clearCurrent() {
	ts.mu.Lock()
	current := ts.current
	ts.current = ""
	ts.mu.Unlock()

	if current != "" {
		ts.store.SetTyping(current, false)
	}
}
