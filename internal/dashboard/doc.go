// Package dashboard holds the in-memory dashboard state: the metric and version
// selectors, the cascading corpus/topic/query group filter lists, and the latest
// evaluation payload.
//
// Lists are append-only. A name is added at most once per uniqueness key, new
// items default to selected, and a refresh never overwrites the selection of an
// item that already exists. The merge functions in this package are pure; State
// applies them under a mutex and a per-branch generation check: a result is
// dropped only when a newer refresh cycle already merged the same branch.
package dashboard
