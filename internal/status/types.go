// Package status tracks the outcome of refresh operations for each dashboard list.
package status

import (
	"time"

	"github.com/stacklok/rre-dashboard/internal/dashboard"
)

// RefreshPhase represents the current phase of a list refresh
type RefreshPhase string

const (
	// RefreshPhasePending means the list has not been refreshed yet
	RefreshPhasePending RefreshPhase = "Pending"

	// RefreshPhaseRefreshing means a fetch for the list is in flight
	RefreshPhaseRefreshing RefreshPhase = "Refreshing"

	// RefreshPhaseComplete means the last fetch succeeded
	RefreshPhaseComplete RefreshPhase = "Complete"

	// RefreshPhaseFailed means the last fetch failed
	RefreshPhaseFailed RefreshPhase = "Failed"

	// RefreshPhaseDiscarded means the last result belonged to a superseded cycle
	RefreshPhaseDiscarded RefreshPhase = "Discarded"
)

// RefreshStatus represents the refresh state of a single list kind
type RefreshStatus struct {
	// Kind is the list this status belongs to
	Kind dashboard.ListKind `json:"kind" yaml:"kind"`

	// Phase represents the current refresh phase
	Phase RefreshPhase `json:"phase" yaml:"phase"`

	// Message provides additional information about the refresh status
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// LastAttempt is the timestamp of the last fetch attempt
	LastAttempt *time.Time `json:"lastAttempt,omitempty" yaml:"lastAttempt,omitempty"`

	// FailureCount is the number of failed fetches since the last success
	FailureCount int `json:"failureCount,omitempty" yaml:"failureCount,omitempty"`

	// LastSuccess is the timestamp of the last successful fetch
	LastSuccess *time.Time `json:"lastSuccess,omitempty" yaml:"lastSuccess,omitempty"`

	// LastError is the message of the most recent failure
	LastError string `json:"lastError,omitempty" yaml:"lastError,omitempty"`

	// ItemCount is the list length after the last successful merge
	ItemCount int `json:"itemCount" yaml:"itemCount"`

	// LastHash is the payload hash after the last successful data refresh
	LastHash string `json:"lastHash,omitempty" yaml:"lastHash,omitempty"`
}
