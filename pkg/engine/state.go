package engine

// State is the lifecycle stage of one tag occurrence.
type State int

const (
	StatePending State = iota
	StateResolving
	StateRendering
	StateEmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolving:
		return "resolving"
	case StateRendering:
		return "rendering"
	case StateEmitted:
		return "emitted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether a tag may move from s to next.
func (s State) CanTransition(next State) bool {
	switch s {
	case StatePending:
		return next == StateResolving
	case StateResolving:
		return next == StateRendering || next == StateFailed
	case StateRendering:
		return next == StateEmitted || next == StateFailed
	default:
		return false
	}
}

// Terminal reports whether s ends the lifecycle.
func (s State) Terminal() bool {
	return s == StateEmitted || s == StateFailed
}
