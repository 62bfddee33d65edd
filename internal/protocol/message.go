// Package protocol defines the signaling message vocabulary and its JSON
// wire encoding. One message per frame, encoded as an envelope of the form
// {"type": <tag>, "payload": <payload>}.
package protocol

type Message interface {
	Type() MessageType
}

// Register announces the client's presence to the relay.
type Register struct {
	Nickname string `json:"nickname"`
}

func (Register) Type() MessageType { return MsgRegister }

// RegisterSuccess acknowledges a Register. Carries no payload.
type RegisterSuccess struct{}

func (RegisterSuccess) Type() MessageType { return MsgRegisterSuccess }

// DisconnectUser is a graceful leave. The payload is the bare nickname.
type DisconnectUser struct {
	Nickname string
}

func (DisconnectUser) Type() MessageType { return MsgDisconnectUser }

// GetActiveUsersList requests the current roster.
type GetActiveUsersList struct {
	Nickname string
}

func (GetActiveUsersList) Type() MessageType { return MsgGetActiveUsersList }

// ActiveUsersList is a full roster replacement, ordered by arrival.
type ActiveUsersList struct {
	Users []string
}

func (ActiveUsersList) Type() MessageType { return MsgActiveUsersList }

// SendFile announces an available object by its transfer ticket.
type SendFile struct {
	Ticket string
}

func (SendFile) Type() MessageType { return MsgSendFile }

// ReceiveFile notifies the client of an incoming object.
type ReceiveFile struct {
	Ticket string
}

func (ReceiveFile) Type() MessageType { return MsgReceiveFile }

// ErrorDeserializingJson is the relay's decode-failure notice.
type ErrorDeserializingJson struct {
	Reason string
}

func (ErrorDeserializingJson) Type() MessageType { return MsgErrorDeserializingJson }
