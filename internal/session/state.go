package session

// State is the session lifecycle position. Transitions are total
// functions of (state, event); unhandled pairs are no-ops, never errors.
type State int

const (
	StateStarting State = iota
	StateBootstrapping
	StateRegistering
	StateAwaitingRegisterAck
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "STARTING"
	case StateBootstrapping:
		return "BOOTSTRAPPING"
	case StateRegistering:
		return "REGISTERING"
	case StateAwaitingRegisterAck:
		return "AWAITING_REGISTER_ACK"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
