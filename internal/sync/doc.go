// Package sync keeps the dashboard filter lists in step with the evaluation server.
//
// A refresh cycle fetches the evaluation payload and the metric, version and
// corpus lists in parallel. As soon as the corpus list has merged, it walks the
// dependency graph corpus -> topics -> query groups, but only for branches
// that need it:
//
//   - a corpus is refreshed when it was newly discovered, toggled back to
//     selected, or when the payload hash changed since the graph last ran
//   - the query groups of a (corpus, topic) pair are refreshed whenever its
//     corpus is, when the topic is newly discovered, when the topic is
//     toggled back to selected, or when its last fetch failed
//
// The payload fetch never holds up the walk. A payload that lands after the
// walk was planned cascades the corpora it invalidated from its own goroutine.
//
// Full cascade mode drops the dirty tracking and refreshes every selected
// branch on every cycle.
//
// # Generations
//
// Every cycle takes a new generation from dashboard.State. Merges are applied
// through State.Apply, which drops a result only when a newer generation has
// already merged the same branch, so cycles that outlive the tick interval
// still land. Selection events reuse the current generation. A branch whose
// fetch failed stays dirty and is picked up by the next cycle.
//
// # Failures
//
// A failed fetch aborts only its own branch. Siblings keep running and the
// next cycle is unaffected. Failures are recorded in the status tracker and
// the sync metrics; query group failures are best-effort and not logged here.
//
// The coordinator subpackage owns the ticker that drives cycles.
package sync
