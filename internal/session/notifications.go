package session

// Notification is the outbound event stream consumed by the presentation
// layer. Failures are delivered on the same stream as successes, tagged
// distinctly, so the consumer can render them without inspecting session
// internals.
type Notification interface {
	notification()
}

// ReadyToPublish signals that both subsystems bootstrapped and
// registration is about to begin.
type ReadyToPublish struct{}

func (ReadyToPublish) notification() {}

// RegisterAccepted signals the relay acknowledged our registration.
type RegisterAccepted struct{}

func (RegisterAccepted) notification() {}

// SessionReady signals the session reached its steady state.
type SessionReady struct{}

func (SessionReady) notification() {}

// RosterUpdated carries the full replacement roster, ordered by arrival.
type RosterUpdated struct {
	Users []string
}

func (RosterUpdated) notification() {}

// FilePublished reports a successful publish and the resulting ticket.
type FilePublished struct {
	Ticket string
}

func (FilePublished) notification() {}

// FileReceived reports a resolved incoming object and its local path.
type FileReceived struct {
	Path string
}

func (FileReceived) notification() {}

// ErrorNotice is a non-fatal, user-visible failure; the session stays
// live.
type ErrorNotice struct {
	Err error
}

func (ErrorNotice) notification() {}

// FatalError reports a failure that moved the session to Failed.
type FatalError struct {
	Err error
}

func (FatalError) notification() {}
