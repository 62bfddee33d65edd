package session

import (
	"github.com/dylan0804/mini-dropbox/internal/blob"
	"github.com/dylan0804/mini-dropbox/internal/signaling"
)

// Event flows from background tasks (bootstrap, reader loop, writer loop,
// transfer goroutines) to the session's update loop, which is the sole
// consumer of the bus.
type Event interface {
	event()
}

type bootstrapDone struct {
	Channel  *signaling.Channel
	Endpoint *blob.Endpoint
}

func (bootstrapDone) event() {}

type bootstrapFailed struct {
	Err error
}

func (bootstrapFailed) event() {}

type registerAcked struct{}

func (registerAcked) event() {}

type rosterReplaced struct {
	Users []string
}

func (rosterReplaced) event() {}

type fileOffered struct {
	Ticket string
}

func (fileOffered) event() {}

type relayReportedError struct {
	Reason string
}

func (relayReportedError) event() {}

type frameUndecodable struct {
	Err error
}

func (frameUndecodable) event() {}

type frameSendFailed struct {
	Err error
}

func (frameSendFailed) event() {}

type channelClosed struct {
	Err error
}

func (channelClosed) event() {}

type publishDone struct {
	Ticket string
}

func (publishDone) event() {}

type publishFailed struct {
	Err error
}

func (publishFailed) event() {}

type resolveDone struct {
	Path string
}

func (resolveDone) event() {}

type resolveFailed struct {
	Err error
}

func (resolveFailed) event() {}
