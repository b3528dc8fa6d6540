package session

// State is the lifecycle stage of a Session.
type State int32

const (
	StateActive State = iota
	StateTerminating
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateTerminating:
		return "terminating"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
