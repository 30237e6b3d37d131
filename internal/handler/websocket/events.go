package websocket

// 入站事件名。响应事件名为 <事件名> + "Response"。
const (
	EventRegister = "register"
	EventLogIn    = "logIn"
	EventLogOut   = "logOut"

	EventJoin  = "join"
	EventLeave = "leave"

	EventGetAllUsers       = "getAllUsers"
	EventGetAllUsersOfRoom = "getAllUsersOfRoom"
	EventGetUserByID       = "getUserById"
	EventUpdatedUser       = "updatedUser"
	EventDeletedUser       = "deletedUser"
	EventUpdatedEmail      = "updatedEmail"
	EventUpdatedPassword   = "updatedPassword"

	EventGetAllRooms = "getAllRooms"
	EventGetRoomByID = "getRoomById"
	EventNewRoom     = "newRoom"
	EventUpdatedRoom = "updatedRoom"
	EventDeletedRoom = "deletedRoom"

	EventGetAllMessages       = "getAllMessages"
	EventGetAllMessagesOfRoom = "getAllMessagesOfRoom"
	EventGetMessageByID       = "getMessageById"
	EventNewMessage           = "newMessage"
	EventUpdatedMessage       = "updatedMessage"
	EventDeletedMessage       = "deletedMessage"

	// EventError 承载无法归属到某个响应事件的失败
	EventError = "error"
)

// ResponseEvent 返回请求事件对应的响应事件名。
func ResponseEvent(event string) string {
	return event + "Response"
}

const (
	joinNotice  = "A new user has joined the room"
	leaveNotice = "User %s has left the room"
)
