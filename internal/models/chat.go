package models

// ChatMessage is one live chat message as shown to the user. Messages are
// immutable once received and ordered by arrival, not by CreatedAt; the
// server does not guarantee clock-consistent ordering across senders.
type ChatMessage struct {
	SenderID           int    `json:"senderId"`
	SenderName         string `json:"senderName"`
	SenderEmail        string `json:"senderEmail"`
	SenderProfileImage string `json:"senderProfileImage,omitempty"`
	Content            string `json:"content"`
	RoomID             int    `json:"chattingRoomId"`
	CreatedAt          string `json:"createdAt,omitempty"`
}

// RoomInfo describes one chat room the user participates in.
type RoomInfo struct {
	RoomID      int    `json:"roomId"`
	RoomName    string `json:"roomName"`
	CommunityID int    `json:"communityId"`
}

// Participant is one member currently registered in a room. The headcount
// shown on the panel is the length of the participant list.
type Participant struct {
	UserID int    `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

// ShareRequest asks for a post to be announced in a community's chat room.
// Timestamp is unix milliseconds at the moment the share was requested.
type ShareRequest struct {
	PostID      int    `json:"postId"`
	PostTitle   string `json:"postTitle"`
	CommunityID int    `json:"communityId"`
	Timestamp   int64  `json:"timestamp"`
}
