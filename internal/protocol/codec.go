package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownTag = errors.New("unknown message tag")

// DecodeError reports a frame that could not be decoded into any known
// message. Tag is empty when the envelope itself was malformed.
type DecodeError struct {
	Tag string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("decode frame: %v", e.Err)
	}
	return fmt.Sprintf("decode %q frame: %v", e.Tag, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// Encode serializes a message into a single wire frame. It is total over
// the message set defined in this package.
func (c *Codec) Encode(msg Message) ([]byte, error) {
	env := envelope{Type: msg.Type()}

	var payload any
	switch m := msg.(type) {
	case *Register:
		payload = m
	case *RegisterSuccess:
	case *DisconnectUser:
		payload = m.Nickname
	case *GetActiveUsersList:
		payload = m.Nickname
	case *ActiveUsersList:
		payload = m.Users
	case *SendFile:
		payload = m.Ticket
	case *ReceiveFile:
		payload = m.Ticket
	case *ErrorDeserializingJson:
		payload = m.Reason
	default:
		return nil, fmt.Errorf("encode: unsupported message %T", msg)
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msg.Type(), err)
		}
		env.Payload = raw
	}

	return json.Marshal(env)
}

// Decode parses a wire frame. Every failure returns a *DecodeError; a
// frame is never silently dropped or allowed to panic.
func (c *Codec) Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}

	switch env.Type {
	case MsgRegister:
		var m Register
		if err := unmarshalPayload(env.Payload, &m); err != nil {
			return nil, &DecodeError{Tag: string(env.Type), Err: err}
		}
		if m.Nickname == "" {
			return nil, &DecodeError{Tag: string(env.Type), Err: errors.New("missing nickname")}
		}
		return &m, nil

	case MsgRegisterSuccess:
		return &RegisterSuccess{}, nil

	case MsgDisconnectUser:
		nickname, err := decodeString(env.Payload)
		if err != nil {
			return nil, &DecodeError{Tag: string(env.Type), Err: err}
		}
		return &DisconnectUser{Nickname: nickname}, nil

	case MsgGetActiveUsersList:
		nickname, err := decodeString(env.Payload)
		if err != nil {
			return nil, &DecodeError{Tag: string(env.Type), Err: err}
		}
		return &GetActiveUsersList{Nickname: nickname}, nil

	case MsgActiveUsersList:
		var users []string
		if err := unmarshalPayload(env.Payload, &users); err != nil {
			return nil, &DecodeError{Tag: string(env.Type), Err: err}
		}
		return &ActiveUsersList{Users: users}, nil

	case MsgSendFile:
		ticket, err := decodeString(env.Payload)
		if err != nil {
			return nil, &DecodeError{Tag: string(env.Type), Err: err}
		}
		return &SendFile{Ticket: ticket}, nil

	case MsgReceiveFile:
		ticket, err := decodeString(env.Payload)
		if err != nil {
			return nil, &DecodeError{Tag: string(env.Type), Err: err}
		}
		return &ReceiveFile{Ticket: ticket}, nil

	case MsgErrorDeserializingJson:
		reason, err := decodeString(env.Payload)
		if err != nil {
			return nil, &DecodeError{Tag: string(env.Type), Err: err}
		}
		return &ErrorDeserializingJson{Reason: reason}, nil

	default:
		return nil, &DecodeError{Tag: string(env.Type), Err: ErrUnknownTag}
	}
}

func unmarshalPayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(raw, v)
}

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := unmarshalPayload(raw, &s); err != nil {
		return "", err
	}
	if s == "" {
		return "", errors.New("empty string payload")
	}
	return s, nil
}
