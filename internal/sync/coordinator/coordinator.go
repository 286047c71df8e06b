package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	pkgsync "github.com/stacklok/rre-dashboard/internal/sync"
	"github.com/stacklok/rre-dashboard/internal/telemetry"
)

const (
	triggerStartup  = "startup"
	triggerPeriodic = "periodic"
)

// ErrAlreadyStarted is returned when Start is called twice
var ErrAlreadyStarted = errors.New("coordinator already started")

// Coordinator manages background refresh scheduling
type Coordinator interface {
	// Start runs the initial cycle and then one cycle per interval.
	// Blocks until the context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop cancels in-flight cycles and waits for them to return
	Stop() error
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	synchronizer pkgsync.Synchronizer
	interval     time.Duration

	mu         sync.Mutex
	started    bool
	cancelFunc context.CancelFunc
	done       chan struct{}
	cycles     sync.WaitGroup

	syncMetrics *telemetry.SyncMetrics
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithSyncMetrics sets the sync metrics for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(c *defaultCoordinator) {
		c.syncMetrics = metrics
	}
}

// New creates a new coordinator. A non-positive interval falls back to one minute.
func New(synchronizer pkgsync.Synchronizer, interval time.Duration, opts ...Option) Coordinator {
	if interval <= 0 {
		interval = time.Minute
	}

	c := &defaultCoordinator{
		synchronizer: synchronizer,
		interval:     interval,
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start begins the refresh loop
func (c *defaultCoordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	coordCtx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel
	c.mu.Unlock()

	slog.Info("Starting refresh coordinator", "interval", c.interval)
	defer func() {
		cancel()
		c.cycles.Wait()
		close(c.done)
		slog.Info("Refresh coordinator shut down")
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.launchCycle(coordCtx, triggerStartup)

	for {
		select {
		case <-ticker.C:
			c.launchCycle(coordCtx, triggerPeriodic)
		case <-coordCtx.Done():
			slog.Info("Refresh coordinator stopping")
			return nil
		}
	}
}

// Stop gracefully stops the coordinator
func (c *defaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancelFunc
	c.mu.Unlock()

	if cancel != nil {
		slog.Info("Stopping refresh coordinator")
		cancel()
		<-c.done
	}
	return nil
}

// launchCycle runs one cycle in its own goroutine; a slow cycle never delays the next tick
func (c *defaultCoordinator) launchCycle(ctx context.Context, trigger string) {
	c.cycles.Add(1)
	go func() {
		defer c.cycles.Done()
		c.runCycle(ctx, trigger)
	}()
}

func (c *defaultCoordinator) runCycle(ctx context.Context, trigger string) {
	start := time.Now()
	err := c.synchronizer.RunCycle(ctx)
	duration := time.Since(start)
	c.syncMetrics.RecordCycle(ctx, trigger, duration, err == nil)

	if err != nil {
		if ctx.Err() != nil {
			slog.Debug("Refresh cycle interrupted by shutdown", "trigger", trigger)
			return
		}
		slog.Warn("Refresh cycle completed with errors",
			"trigger", trigger,
			"duration", duration,
			"error", err)
		return
	}

	slog.Debug("Refresh cycle completed", "trigger", trigger, "duration", duration)
}
