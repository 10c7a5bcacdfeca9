// Package expiry owns the page lifecycle end state: it decides whether a
// record is alive, performs lazy delete-on-read, and runs the periodic sweep
// that removes expired records together with their asset files.
package expiry

import (
	"errors"
	"log"
	"time"

	"github.com/pagebin/pagebin/internal/assets"
	"github.com/pagebin/pagebin/internal/metrics"
	"github.com/pagebin/pagebin/models"
	"github.com/pagebin/pagebin/storage"
)

// ErrExpired signals that a page existed but is past its TTL. Raising it has
// a side effect: the record and its assets have already been deleted by the
// time the caller sees the error.
var ErrExpired = errors.New("page expired")

// Engine implements lazy and eager expiry over a shared store and asset
// resolver. Both paths may run concurrently on the same record; deletes are
// idempotent, so the second deleter simply observes "already absent".
type Engine struct {
	store            storage.PageStore
	resolver         *assets.Resolver
	timeNow          func() time.Time
	sweepLoopStarted bool
}

// NewEngine creates an expiry engine over the given store and resolver
func NewEngine(store storage.PageStore, resolver *assets.Resolver) *Engine {
	return &Engine{
		store:    store,
		resolver: resolver,
		timeNow:  time.Now,
	}
}

// CheckAlive performs the lazy expiry check on a freshly fetched page. If the
// page is alive it returns the remaining TTL. If it is expired, the record is
// deleted, its assets are removed best-effort, and ErrExpired is returned.
func (e *Engine) CheckAlive(page *models.Page) (time.Duration, error) {
	now := e.timeNow().UTC()

	if !page.IsExpired(now) {
		return page.Remaining(now), nil
	}

	// Expired: delete-then-reject within the same operation. A concurrent
	// sweep may have deleted the record already; Delete is idempotent so
	// that race is harmless.
	if err := e.store.Delete(page.Slug); err != nil {
		log.Printf("[ERROR] lazy expiry: failed to delete record %s: %v", page.Slug, err)
	}
	e.removeAssets(page)
	metrics.PagesExpired.WithLabelValues("lazy").Inc()

	return 0, ErrExpired
}

// Sweep runs one eager expiry cycle: snapshot now, fetch everything expired
// at that instant, remove assets per record, then bulk-delete exactly the
// snapshot by identity. Returns the number of records deleted.
//
// Deleting by identity rather than re-querying expiry means a record
// inserted after the snapshot can never be caught by this cycle.
func (e *Engine) Sweep() (int, error) {
	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	now := e.timeNow().UTC()

	expired, err := e.store.FindExpired(now)
	if err != nil {
		metrics.SweepFailures.Inc()
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	slugs := make([]string, 0, len(expired))
	for _, page := range expired {
		// Per-record asset cleanup is isolated: one bad asset never aborts
		// the batch.
		e.removeAssets(page)
		slugs = append(slugs, page.Slug)
	}

	if err := e.store.DeleteMany(slugs); err != nil {
		metrics.SweepFailures.Inc()
		return 0, err
	}

	metrics.PagesExpired.WithLabelValues("sweep").Add(float64(len(slugs)))
	return len(slugs), nil
}

// SweepLoop runs Sweep on a fixed interval until the shutdown channel
// closes. Cycle-level failures are logged and swallowed; the loop self-heals
// on the next tick.
func (e *Engine) SweepLoop(interval time.Duration, shutdown <-chan struct{}) {
	if e.sweepLoopStarted {
		panic("SweepLoop already started -- should only be run once")
	}
	e.sweepLoopStarted = true

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-shutdown:
			log.Printf("expiry sweep: received shutdown signal")
			return

		case <-ticker.C:
			reaped, err := e.Sweep()
			if err != nil {
				log.Printf("[ERROR] expiry sweep: cycle failed, retrying next interval: %v", err)
				continue
			}
			if reaped > 0 {
				log.Printf("expiry sweep: deleted %d expired page(s)", reaped)
			}
		}
	}
}

// removeAssets deletes every resolvable asset of a page, best-effort. A
// missing file is success; failures are logged at the point of occurrence
// and never propagate.
func (e *Engine) removeAssets(page *models.Page) {
	for _, ref := range page.Assets {
		removed, err := e.resolver.Remove(ref)
		if err != nil {
			log.Printf("[WARN] asset cleanup for %s: %v", page.Slug, err)
			continue
		}
		if removed {
			metrics.AssetsRemoved.Inc()
		}
	}
}
