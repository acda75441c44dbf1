package exchange

import (
	"context"
	"sync"
	"time"

	"gridcert.org/internal/obs"
	"gridcert.org/internal/stream"
)

// Watcher polls the exchange for new trades of tracked organizations and
// publishes them to the live stream. Organizations are tracked lazily,
// when a client first opens a stream for them.
type Watcher struct {
	svc      Service
	out      *stream.Stream
	interval time.Duration

	mu   sync.Mutex
	orgs map[string]struct{}
	seen map[string]struct{}
}

func NewWatcher(svc Service, out *stream.Stream, interval time.Duration) *Watcher {
	return &Watcher{
		svc:      svc,
		out:      out,
		interval: interval,
		orgs:     make(map[string]struct{}),
		seen:     make(map[string]struct{}),
	}
}

// Track adds an organization to the polling set.
func (w *Watcher) Track(organizationID string) {
	if organizationID == "" {
		return
	}
	w.mu.Lock()
	w.orgs[organizationID] = struct{}{}
	w.mu.Unlock()
}

// Run polls until the context ends. Intended as a background goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	w.mu.Lock()
	orgs := make([]string, 0, len(w.orgs))
	for id := range w.orgs {
		orgs = append(orgs, id)
	}
	w.mu.Unlock()

	for _, orgID := range orgs {
		trades, err := w.svc.Trades(ctx, orgID)
		if err != nil {
			obs.LogRequest(map[string]any{
				"ts":     time.Now().UTC().Format(time.RFC3339Nano),
				"level":  "warn",
				"msg":    "trade poll failed",
				"org_id": orgID,
				"error":  err.Error(),
			})
			continue
		}
		for _, t := range trades {
			w.mu.Lock()
			_, dup := w.seen[t.ID]
			if !dup {
				w.seen[t.ID] = struct{}{}
			}
			w.mu.Unlock()
			if dup {
				continue
			}
			w.out.Publish(stream.TradeEvent{
				OrganizationID: orgID,
				TradeID:        t.ID,
				Side:           t.Side,
				Volume:         t.Volume,
				Price:          t.Price,
				Timestamp:      t.Created,
			})
		}
	}
}
