package session

// Commands enter the session from the presentation layer. Submission is
// non-blocking; ErrQueueFull is returned when the backlog is at capacity.

type command interface {
	command()
}

type cmdSelectFile struct {
	Path string
}

func (cmdSelectFile) command() {}

type cmdRequestRoster struct{}

func (cmdRequestRoster) command() {}

type cmdPublish struct {
	Nickname string
}

func (cmdPublish) command() {}

type cmdDisconnect struct{}

func (cmdDisconnect) command() {}

// SelectFileForTransfer queues one file path for the next publish. At
// most one file is pending at a time; selecting again replaces it.
func (s *Session) SelectFileForTransfer(path string) error {
	return s.submit(cmdSelectFile{Path: path})
}

// RequestRoster asks the relay for the current roster.
func (s *Session) RequestRoster() error {
	return s.submit(cmdRequestRoster{})
}

// PublishToPeer publishes the pending file and announces its ticket. The
// wire protocol broadcasts tickets through the relay; the nickname
// records the user's intent for the presentation layer.
func (s *Session) PublishToPeer(nickname string) error {
	return s.submit(cmdPublish{Nickname: nickname})
}

// Disconnect requests a graceful leave. The disconnect frame is sent
// best-effort; an enqueue failure is reported, not retried.
func (s *Session) Disconnect() error {
	return s.submit(cmdDisconnect{})
}

func (s *Session) submit(c command) error {
	select {
	case s.cmds <- c:
		return nil
	default:
		return ErrQueueFull
	}
}
