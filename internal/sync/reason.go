package sync

// Reason explains why a corpus or topic branch is refreshed
type Reason int

const (
	// ReasonNone means the branch is clean
	ReasonNone Reason = iota
	// ReasonDiscovered means the item was added by the latest merge
	ReasonDiscovered
	// ReasonSelected means the item was toggled back to selected
	ReasonSelected
	// ReasonDataChanged means the evaluation payload hash changed
	ReasonDataChanged
	// ReasonFullCascade means full cascade mode is enabled
	ReasonFullCascade
	// ReasonRetry means the last fetch for the branch failed or was discarded
	ReasonRetry
)

// String returns a human-readable representation of the reason
func (r Reason) String() string {
	switch r {
	case ReasonDiscovered:
		return "discovered"
	case ReasonSelected:
		return "selection-changed"
	case ReasonDataChanged:
		return "data-changed"
	case ReasonFullCascade:
		return "full-cascade"
	case ReasonRetry:
		return "retry"
	default:
		return "none"
	}
}
