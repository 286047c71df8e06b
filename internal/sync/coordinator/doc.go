// Package coordinator schedules refresh cycles in the background.
//
// The coordinator runs one cycle on startup and then one per tick of a fixed
// interval. Ticks are unconditional: a tick does not wait for the previous
// cycle to finish, so cycles may overlap. A result is only dropped once a
// newer cycle merged the same branch, so cycles slower than the interval
// still land.
//
// # Usage Example
//
//	coord := coordinator.New(synchronizer, cfg.Sync.Interval,
//	    coordinator.WithSyncMetrics(metrics))
//
//	go func() {
//	    if err := coord.Start(ctx); err != nil {
//	        slog.Error("Coordinator failed", "error", err)
//	    }
//	}()
//
//	// ... run the control API ...
//
//	_ = coord.Stop()
//
// Stop cancels the context shared by every in-flight cycle and waits for them
// to return, so no merge lands after Stop.
package coordinator
