package presence

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AlibekovAA/microblog/internal/account/domain"
	"github.com/AlibekovAA/microblog/internal/common/clock"
	"github.com/AlibekovAA/microblog/internal/common/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingToucher struct {
	mu      sync.Mutex
	batches [][]domain.ID
	err     error
}

func (r *recordingToucher) TouchLastSeen(_ context.Context, ids []domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := append([]domain.ID(nil), ids...)
	sort.Slice(batch, func(i, j int) bool { return batch[i] < batch[j] })
	r.batches = append(r.batches, batch)
	return r.err
}

func (r *recordingToucher) all() []domain.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ID
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func newTestUpdater(t *testing.T, toucher Toucher, clk clock.Clock) *Updater {
	t.Helper()
	log, _ := logger.New("", "test", "error")
	return NewUpdater(context.Background(), toucher, log, clk, time.Minute, time.Hour)
}

func TestUpdater_StopFlushesPending(t *testing.T) {
	toucher := &recordingToucher{}
	u := newTestUpdater(t, toucher, clock.NewMockClock(time.Now()))

	u.Enqueue("a1")
	u.Enqueue("a2")
	u.Stop()

	assert.ElementsMatch(t, []domain.ID{"a1", "a2"}, toucher.all())
}

func TestUpdater_ThrottlesPerAccount(t *testing.T) {
	toucher := &recordingToucher{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	u := newTestUpdater(t, toucher, mockClock)

	u.Enqueue("a1")
	u.Enqueue("a1")
	mockClock.Advance(30 * time.Second)
	u.Enqueue("a1")
	u.Stop()

	assert.Equal(t, []domain.ID{"a1"}, toucher.all())
}

func TestUpdater_ThrottleWindowExpires(t *testing.T) {
	toucher := &recordingToucher{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "error")
	u := NewUpdater(context.Background(), toucher, log, mockClock, time.Minute, 10*time.Millisecond)

	u.Enqueue("a1")
	require.Eventually(t, func() bool { return len(toucher.all()) == 1 }, time.Second, 5*time.Millisecond)

	mockClock.Advance(2 * time.Minute)
	u.Enqueue("a1")
	u.Stop()

	assert.Equal(t, []domain.ID{"a1", "a1"}, toucher.all())
}

func TestUpdater_FailuresDoNotStopLoop(t *testing.T) {
	toucher := &recordingToucher{err: errors.New("db down")}
	u := newTestUpdater(t, toucher, clock.NewMockClock(time.Now()))

	u.Enqueue("a1")
	u.Stop()
	u.Stop()

	assert.Equal(t, []domain.ID{"a1"}, toucher.all())
}

func cachedAccounts(u *Updater) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.lastSeenCache)
}

func TestUpdater_EvictsExpiredThrottleEntries(t *testing.T) {
	toucher := &recordingToucher{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "error")
	u := NewUpdater(context.Background(), toucher, log, mockClock, time.Minute, 10*time.Millisecond)
	defer u.Stop()

	u.Enqueue("a1")
	u.Enqueue("a2")
	require.Eventually(t, func() bool { return len(toucher.all()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, cachedAccounts(u))

	mockClock.Advance(2 * time.Minute)
	require.Eventually(t, func() bool { return cachedAccounts(u) == 0 }, time.Second, 5*time.Millisecond)
}
