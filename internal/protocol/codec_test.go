package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec()

	messages := []Message{
		&Register{Nickname: "guest42"},
		&RegisterSuccess{},
		&DisconnectUser{Nickname: "guest42"},
		&GetActiveUsersList{Nickname: "guest42"},
		&ActiveUsersList{Users: []string{"alice", "bob", "carol"}},
		&SendFile{Ticket: "dropAAAA"},
		&ReceiveFile{Ticket: "dropBBBB"},
		&ErrorDeserializingJson{Reason: "invalid frame"},
	}

	for _, msg := range messages {
		data, err := codec.Encode(msg)
		if err != nil {
			t.Fatalf("Encode %s failed: %v", msg.Type(), err)
		}

		decoded, err := codec.Decode(data)
		if err != nil {
			t.Fatalf("Decode %s failed: %v", msg.Type(), err)
		}

		if !reflect.DeepEqual(decoded, msg) {
			t.Errorf("Round trip mismatch for %s: got %+v, want %+v", msg.Type(), decoded, msg)
		}
	}
}

func TestCodecRegisterPayloadShape(t *testing.T) {
	codec := NewCodec()

	data, err := codec.Encode(&Register{Nickname: "guest42"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := `{"type":"register","payload":{"nickname":"guest42"}}`
	if string(data) != want {
		t.Errorf("Expected frame %s, got %s", want, data)
	}
}

func TestCodecRegisterSuccessOmitsPayload(t *testing.T) {
	codec := NewCodec()

	data, err := codec.Encode(&RegisterSuccess{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := `{"type":"register_success"}`
	if string(data) != want {
		t.Errorf("Expected frame %s, got %s", want, data)
	}
}

func TestCodecEmptyRoster(t *testing.T) {
	codec := NewCodec()

	data, err := codec.Encode(&ActiveUsersList{Users: []string{}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	list, ok := decoded.(*ActiveUsersList)
	if !ok {
		t.Fatalf("Expected *ActiveUsersList, got %T", decoded)
	}
	if len(list.Users) != 0 {
		t.Errorf("Expected empty roster, got %v", list.Users)
	}
}

func TestCodecDecodeMalformed(t *testing.T) {
	codec := NewCodec()

	cases := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"empty input", ""},
		{"wrong top-level type", `"register"`},
		{"unknown tag", `{"type":"self_destruct","payload":"now"}`},
		{"missing register payload", `{"type":"register"}`},
		{"register payload wrong shape", `{"type":"register","payload":"guest42"}`},
		{"register missing nickname", `{"type":"register","payload":{}}`},
		{"disconnect payload wrong type", `{"type":"disconnect_user","payload":42}`},
		{"roster payload wrong type", `{"type":"active_users_list","payload":"alice"}`},
		{"send_file missing payload", `{"type":"send_file"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := codec.Decode([]byte(tc.data))
			if err == nil {
				t.Fatalf("Expected decode error, got message %+v", msg)
			}

			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("Expected *DecodeError, got %T: %v", err, err)
			}
		})
	}
}

func TestCodecUnknownTagSentinel(t *testing.T) {
	codec := NewCodec()

	_, err := codec.Decode([]byte(`{"type":"launch_missiles"}`))
	if !errors.Is(err, ErrUnknownTag) {
		t.Errorf("Expected ErrUnknownTag, got %v", err)
	}
}

func TestMessageTypeString(t *testing.T) {
	if got := MsgRegister.String(); got != "REGISTER" {
		t.Errorf("Expected REGISTER, got %s", got)
	}
	if got := MessageType("bogus").String(); got != "UNKNOWN" {
		t.Errorf("Expected UNKNOWN, got %s", got)
	}
}
