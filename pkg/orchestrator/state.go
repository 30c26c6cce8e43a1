package orchestrator

// State is where a submission is in its lifecycle
type State int

const (
	StateIdle State = iota
	StateSubmittingScript
	StateSubmittingSeo
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmittingScript:
		return "submitting(script)"
	case StateSubmittingSeo:
		return "submitting(seo)"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a submission
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
