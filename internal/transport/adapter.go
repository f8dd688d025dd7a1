package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"board-client/internal/models"
	"board-client/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

var ErrNotConnected = errors.New("transport not connected")

// MessageHandler receives each inbound chat message in arrival order.
type MessageHandler func(models.ChatMessage)

// ErrorHandler receives connection-level failures. The handshake and the
// read loop are asynchronous, so errors surface here rather than as return
// values of the calling code.
type ErrorHandler func(error)

// Adapter wraps one publish/subscribe connection to the chat broker:
// CONNECT with a bearer credential, SUBSCRIBE to the room's inbound topic,
// SEND to its outbound destination, and an idempotent disconnect.
type Adapter struct {
	url string

	mu      sync.Mutex
	conn    *websocket.Conn
	closing bool
}

func NewAdapter(wsURL string) *Adapter {
	return &Adapter{url: wsURL}
}

// Connect dials the broker, performs the STOMP handshake carrying the bearer
// token, and subscribes to `/sub/chat/{roomID}`. Received frames are decoded
// and passed to onMessage; connection errors after the handshake go to
// onError.
func (a *Adapter) Connect(ctx context.Context, roomID int, token string, onMessage MessageHandler, onError ErrorHandler) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		return fmt.Errorf("transport already connected")
	}

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.url, header)
	if err != nil {
		return fmt.Errorf("failed to dial chat broker: %w", err)
	}

	connect := &frame{
		Command: cmdConnect,
		Headers: map[string]string{
			"accept-version": "1.2",
			"heart-beat":     "0,0",
		},
	}
	if token != "" {
		connect.Headers["Authorization"] = "Bearer " + token
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, connect.marshal()); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send connect frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	reply, err := readFrame(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}
	if reply.Command != cmdConnected {
		conn.Close()
		return fmt.Errorf("handshake rejected: %s %s", reply.Command, reply.Headers["message"])
	}
	conn.SetReadDeadline(time.Time{})

	subscribe := &frame{
		Command: cmdSubscribe,
		Headers: map[string]string{
			"id":          uuid.NewString(),
			"destination": fmt.Sprintf("/sub/chat/%d", roomID),
		},
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, subscribe.marshal()); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	a.conn = conn
	a.closing = false
	go a.readLoop(conn, onMessage, onError)
	return nil
}

func (a *Adapter) readLoop(conn *websocket.Conn, onMessage MessageHandler, onError ErrorHandler) {
	for {
		f, err := readFrame(conn)
		if err != nil {
			a.mu.Lock()
			closing := a.closing
			a.mu.Unlock()
			if !closing && onError != nil {
				onError(err)
			}
			return
		}
		if f == nil {
			continue
		}

		switch f.Command {
		case cmdMessage:
			var in inboundMessage
			if err := json.Unmarshal(f.Body, &in); err != nil {
				logger.Error("Dropping undecodable chat frame: %v", err)
				continue
			}
			if onMessage != nil {
				onMessage(in.toChatMessage())
			}
		case cmdError:
			if onError != nil {
				onError(fmt.Errorf("broker error: %s", f.Headers["message"]))
			}
		}
	}
}

// readFrame returns (nil, nil) for heartbeat frames.
func readFrame(conn *websocket.Conn) (*frame, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if isHeartbeat(data) {
		return nil, nil
	}
	return parseFrame(data)
}

func isHeartbeat(data []byte) bool {
	for _, b := range data {
		if b != '\n' && b != '\r' && b != 0 {
			return false
		}
	}
	return true
}

// Publish sends the message content to the room's outbound destination.
func (a *Adapter) Publish(roomID int, content string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return ErrNotConnected
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	send := &frame{
		Command: cmdSend,
		Headers: map[string]string{
			"destination":  fmt.Sprintf("/pub/chat/%d", roomID),
			"content-type": "application/json",
		},
		Body: body,
	}

	a.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := a.conn.WriteMessage(websocket.TextMessage, send.marshal()); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Disconnect deactivates the connection. Safe to call repeatedly and while
// already disconnected.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return
	}
	a.closing = true

	disconnect := &frame{Command: cmdDisconnect, Headers: map[string]string{}}
	a.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := a.conn.WriteMessage(websocket.TextMessage, disconnect.marshal()); err != nil {
		logger.Debug("Disconnect frame not delivered: %v", err)
	}
	a.conn.Close()
	a.conn = nil
}

func (a *Adapter) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn != nil
}

// inboundMessage is the broker's wire shape. Some backend versions send the
// profile image under userProfileImg instead of senderProfileImage; both map
// onto the canonical field.
type inboundMessage struct {
	SenderID           int    `json:"senderId"`
	SenderName         string `json:"senderName"`
	SenderEmail        string `json:"senderEmail"`
	SenderProfileImage string `json:"senderProfileImage"`
	UserProfileImg     string `json:"userProfileImg"`
	Content            string `json:"content"`
	ChattingRoomID     int    `json:"chattingRoomId"`
	CreatedAt          string `json:"createdAt"`
}

func (in *inboundMessage) toChatMessage() models.ChatMessage {
	profile := in.UserProfileImg
	if profile == "" {
		profile = in.SenderProfileImage
	}
	return models.ChatMessage{
		SenderID:           in.SenderID,
		SenderName:         in.SenderName,
		SenderEmail:        in.SenderEmail,
		SenderProfileImage: profile,
		Content:            in.Content,
		RoomID:             in.ChattingRoomID,
		CreatedAt:          in.CreatedAt,
	}
}
