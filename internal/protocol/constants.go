package protocol

// MessageType is the wire tag of a signaling frame. Tags are snake_case
// strings, matching the relay's serialization.
type MessageType string

const (
	MsgRegister               MessageType = "register"
	MsgRegisterSuccess        MessageType = "register_success"
	MsgDisconnectUser         MessageType = "disconnect_user"
	MsgGetActiveUsersList     MessageType = "get_active_users_list"
	MsgActiveUsersList        MessageType = "active_users_list"
	MsgSendFile               MessageType = "send_file"
	MsgReceiveFile            MessageType = "receive_file"
	MsgErrorDeserializingJson MessageType = "error_deserializing_json"
)

func (t MessageType) String() string {
	switch t {
	case MsgRegister:
		return "REGISTER"
	case MsgRegisterSuccess:
		return "REGISTER_SUCCESS"
	case MsgDisconnectUser:
		return "DISCONNECT_USER"
	case MsgGetActiveUsersList:
		return "GET_ACTIVE_USERS_LIST"
	case MsgActiveUsersList:
		return "ACTIVE_USERS_LIST"
	case MsgSendFile:
		return "SEND_FILE"
	case MsgReceiveFile:
		return "RECEIVE_FILE"
	case MsgErrorDeserializingJson:
		return "ERROR_DESERIALIZING_JSON"
	default:
		return "UNKNOWN"
	}
}
