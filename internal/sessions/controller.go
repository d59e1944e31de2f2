package sessions

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/proxysurf/launcher/internal/models"
)

// Strategy selects how the periodic refresh handles a captured
// snapshot.
type Strategy string

const (
	// StrategyMemory caches each capture in process and writes the file
	// once, at shutdown. Less disk I/O, but a hard kill between cycles
	// loses whatever changed since the last cache.
	StrategyMemory Strategy = "memory"

	// StrategyDisk writes each capture straight to the snapshot file,
	// so the on-disk copy is always at most one interval stale.
	StrategyDisk Strategy = "disk"
)

// ParseStrategy validates a strategy name from configuration.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case StrategyMemory, "":
		return StrategyMemory, nil
	case StrategyDisk:
		return StrategyDisk, nil
	default:
		return "", fmt.Errorf("unknown session strategy: %s", name)
	}
}

// SnapshotSource is the borrowed handle to a live browser session. The
// browser package implements it; tests substitute fakes.
type SnapshotSource interface {
	// CaptureSnapshot serializes the session's current storage state.
	CaptureSnapshot() (models.StorageSnapshot, error)
	// Close tears down the session handle.
	Close() error
}

// Options configures a Controller.
type Options struct {
	Persist  bool
	Strategy Strategy
	Interval time.Duration
}

// Controller owns the lifecycle of the storage snapshot for one live
// browser session: it refreshes the snapshot on a schedule while the
// session runs and guarantees a final flush before the process exits.
type Controller struct {
	store    *Store
	source   SnapshotSource
	engine   models.Engine
	persist  bool
	strategy Strategy
	interval time.Duration

	scheduler *gocron.Scheduler

	lock   sync.Mutex
	cached models.StorageSnapshot

	shuttingDown atomic.Bool
}

func NewController(store *Store, source SnapshotSource, engine models.Engine, opts Options) *Controller {
	if opts.Strategy == "" {
		opts.Strategy = StrategyMemory
	}
	return &Controller{
		store:    store,
		source:   source,
		engine:   engine,
		persist:  opts.Persist,
		strategy: opts.Strategy,
		interval: opts.Interval,
	}
}

// StartPeriodicRefresh begins the recurring background capture. It is
// a no-op when persistence is disabled or no interval is configured.
func (c *Controller) StartPeriodicRefresh() {
	if !c.persist || c.interval <= 0 {
		return
	}

	scheduler := gocron.NewScheduler(time.UTC)

	if _, err := scheduler.Every(c.interval).Do(c.refresh); err != nil {
		logrus.WithError(err).Errorln("Failed to schedule session refresh")
		return
	}

	scheduler.StartAsync()
	c.scheduler = scheduler

	logrus.WithFields(logrus.Fields{
		"engine":   c.engine,
		"interval": c.interval,
		"strategy": c.strategy,
	}).Debugln("Started periodic session refresh")
}

// refresh captures the current storage state once. Refresh is best
// effort: a failed capture (the session may already be closing) keeps
// the previous cached value and must never take the process down.
func (c *Controller) refresh() {
	snapshot, err := c.source.CaptureSnapshot()

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"engine": c.engine,
		}).Debugln("Skipping session refresh, capture failed")
		return
	}

	c.setCached(snapshot)

	if c.strategy != StrategyDisk {
		return
	}

	if err := c.store.Write(c.engine, snapshot); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"engine": c.engine,
		}).Debugln("Skipping session refresh, write failed")
	}
}

// Shutdown runs the shutdown sequence exactly once, no matter how many
// termination signals arrive: stop the periodic refresh, capture one
// final snapshot (falling back to the last cached copy if the live
// capture fails), persist it, and close the session handle. Nothing in
// here may block the process from exiting.
func (c *Controller) Shutdown(signalName string) {
	if !c.shuttingDown.CompareAndSwap(false, true) {
		logrus.WithFields(logrus.Fields{
			"signal": signalName,
		}).Debugln("Shutdown already in progress, ignoring signal")
		return
	}

	logrus.WithFields(logrus.Fields{
		"engine": c.engine,
		"signal": signalName,
	}).Infoln("Shutting down browser session")

	if c.scheduler != nil {
		c.scheduler.Stop()
	}

	if c.persist {
		c.flush()
	}

	if err := c.source.Close(); err != nil {
		logrus.WithError(err).Debugln("Failed to close browser session cleanly")
	}
}

// flush persists the freshest snapshot available. A failed final
// capture falls back to the cache; with neither, the write is skipped
// and the session still closes. Losing the last interval of state is
// acceptable, blocking exit is not.
func (c *Controller) flush() {
	snapshot, err := c.source.CaptureSnapshot()

	if err != nil {
		logrus.WithError(err).Warnln("Final snapshot capture failed, falling back to cached state")
		snapshot = c.getCached()
	}

	if snapshot.Empty() {
		logrus.WithFields(logrus.Fields{
			"engine": c.engine,
		}).Warnln("No session snapshot available to persist")
		return
	}

	if err := c.store.Write(c.engine, snapshot); err != nil {
		logrus.WithError(err).Errorln("Failed to persist final session snapshot")
	}
}

func (c *Controller) setCached(snapshot models.StorageSnapshot) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cached = snapshot
}

func (c *Controller) getCached() models.StorageSnapshot {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.cached
}
