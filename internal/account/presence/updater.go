// Package presence batches "last active" stamps for authenticated requests
// so that reads never write to the accounts table inline.
package presence

import (
	"context"
	"sync"
	"time"

	"github.com/AlibekovAA/microblog/internal/account/domain"
	"github.com/AlibekovAA/microblog/internal/common/clock"
	"github.com/AlibekovAA/microblog/internal/common/constants"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	"github.com/AlibekovAA/microblog/internal/observability/metrics"
)

type Toucher interface {
	TouchLastSeen(ctx context.Context, ids []domain.ID) error
}

type Updater struct {
	ctx            context.Context
	cancel         context.CancelFunc
	toucher        Toucher
	log            *logger.Logger
	clock          clock.Clock
	updateInterval time.Duration
	flushEvery     time.Duration
	queue          chan domain.ID
	lastSeenCache  map[domain.ID]time.Time
	lastEviction   time.Time
	mu             sync.Mutex
	wg             sync.WaitGroup
	stopOnce       sync.Once
}

// NewUpdater starts the flush loop. Each account is enqueued at most once per
// updateInterval; queued ids are written in batches every flushEvery.
func NewUpdater(ctx context.Context, toucher Toucher, log *logger.Logger, clk clock.Clock, updateInterval, flushEvery time.Duration) *Updater {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if flushEvery <= 0 {
		flushEvery = constants.LastSeenFlushEvery
	}

	updateCtx, cancel := context.WithCancel(ctx)
	u := &Updater{
		ctx:            updateCtx,
		cancel:         cancel,
		toucher:        toucher,
		log:            log,
		clock:          clk,
		updateInterval: updateInterval,
		flushEvery:     flushEvery,
		queue:          make(chan domain.ID, constants.LastSeenQueueSize),
		lastSeenCache:  make(map[domain.ID]time.Time),
	}

	u.wg.Add(1)
	go u.run()

	return u
}

func (u *Updater) Enqueue(id domain.ID) {
	now := u.clock.Now()

	u.mu.Lock()
	if last, ok := u.lastSeenCache[id]; ok && now.Sub(last) < u.updateInterval {
		u.mu.Unlock()
		return
	}
	u.lastSeenCache[id] = now
	u.mu.Unlock()

	select {
	case u.queue <- id:
	default:
		metrics.LastSeenDropped.Inc()
		u.log.WithFields(context.Background(), logger.Fields{
			"account_id": id,
			"action":     "last_seen_enqueue_dropped",
		}).Warn("last seen queue is full, dropping update")
	}
}

// Stop flushes whatever is pending and waits for the loop to exit.
func (u *Updater) Stop() {
	u.stopOnce.Do(func() {
		u.cancel()
		u.wg.Wait()
	})
}

func (u *Updater) run() {
	defer u.wg.Done()

	ticker := time.NewTicker(u.flushEvery)
	defer ticker.Stop()

	pending := make(map[domain.ID]struct{})

	for {
		select {
		case <-u.ctx.Done():
			u.drain(pending)
			u.flush(pending)
			return
		case id := <-u.queue:
			pending[id] = struct{}{}
			if len(pending) >= constants.LastSeenBatchSize {
				u.flush(pending)
			}
		case <-ticker.C:
			u.flush(pending)
		}
	}
}

func (u *Updater) drain(pending map[domain.ID]struct{}) {
	for {
		select {
		case id := <-u.queue:
			pending[id] = struct{}{}
		default:
			return
		}
	}
}

func (u *Updater) flush(pending map[domain.ID]struct{}) {
	u.evictStale()

	if len(pending) == 0 {
		return
	}

	ids := make([]domain.ID, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.LastSeenUpdateTimeout)
	defer cancel()

	if err := u.toucher.TouchLastSeen(ctx, ids); err != nil {
		metrics.LastSeenFlushes.WithLabelValues("error").Inc()
		u.log.WithFields(ctx, logger.Fields{
			"count":  len(ids),
			"action": "last_seen_batch_failed",
		}).Warnf("failed to batch update last seen: %v", err)
	} else {
		metrics.LastSeenFlushes.WithLabelValues("ok").Inc()
	}

	clear(pending)
}

// evictStale forgets accounts whose throttle window has passed. It sweeps at
// most once per updateInterval.
func (u *Updater) evictStale() {
	now := u.clock.Now()
	if now.Sub(u.lastEviction) < u.updateInterval {
		return
	}
	u.lastEviction = now

	u.mu.Lock()
	defer u.mu.Unlock()
	for id, seen := range u.lastSeenCache {
		if now.Sub(seen) >= u.updateInterval {
			delete(u.lastSeenCache, id)
		}
	}
}
