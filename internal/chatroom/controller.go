package chatroom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"board-client/internal/models"
	"board-client/internal/transport"
	"board-client/pkg/logger"
)

// maxLogSize bounds the in-memory message log per open room; older messages
// are discarded from memory, never from the server.
const maxLogSize = 50

var (
	// ErrUnauthenticated: a gated action was attempted with no token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrJoinFailed: the backend rejected the join; the room stays closed.
	ErrJoinFailed = errors.New("failed to join chat room")
	// ErrLeaveFailed: the backend rejected the leave; the room stays open
	// and the leave remains retryable.
	ErrLeaveFailed = errors.New("failed to leave chat room")
)

// State is the room session lifecycle. Transitions follow
// Closed → Joining → Open → Closed in strict order.
type State int

const (
	StateClosed State = iota
	StateJoining
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateJoining:
		return "joining"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// RoomAPI is the slice of the REST client the controller needs.
type RoomAPI interface {
	JoinRoom(ctx context.Context, communityID int) error
	LeaveRoom(ctx context.Context, communityID int) error
	ChatHistory(ctx context.Context, communityID int) ([]models.ChatMessage, error)
	ChatParticipants(ctx context.Context, communityID int) ([]models.Participant, error)
}

// Transport is the live pub/sub connection for one room.
type Transport interface {
	Connect(ctx context.Context, roomID int, token string, onMessage transport.MessageHandler, onError transport.ErrorHandler) error
	Publish(roomID int, content string) error
	Disconnect()
	Connected() bool
}

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// Config wires a Controller's collaborators. The On* callbacks are optional
// and run outside the state lock, so they may use the controller's accessors.
type Config struct {
	API          RoomAPI
	Tokens       TokenSource
	Transport    Transport
	PollInterval time.Duration

	// OnMessage fires for every message appended to the log.
	OnMessage func(models.ChatMessage)
	// OnRoomLeft fires after a successful leave, so room lists can refresh.
	OnRoomLeft func(communityID int)
	// OnConnected fires once the live transport is up, which is when
	// deferred share requests become deliverable.
	OnConnected func(communityID int)
	// OnTransportError fires for connection-level failures; the room stays
	// open but sends become no-ops until re-entered.
	OnTransportError func(err error)
}

// Controller owns the lifecycle of one community's chat room: the join/leave
// state machine, the live subscription, the bounded message log and the
// participant headcount.
type Controller struct {
	communityID int
	cfg         Config

	mu           sync.Mutex
	state        State
	leaving      bool
	log          []models.ChatMessage
	participants int
	pollStop     chan struct{}
}

func NewController(communityID int, cfg Config) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Controller{communityID: communityID, cfg: cfg}
}

func (c *Controller) CommunityID() int { return c.communityID }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the bounded log in arrival order.
func (c *Controller) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ChatMessage(nil), c.log...)
}

func (c *Controller) ParticipantCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.participants
}

// Enter joins the community's room and brings the live connection up.
// Re-entry while joining or already open is a silent no-op; no duplicate
// join request is sent. An unauthenticated call fails before any network
// traffic. A backend rejection leaves the room closed with no partial
// subscription.
func (c *Controller) Enter(ctx context.Context) error {
	token := c.cfg.Tokens.Token()
	if token == "" {
		return ErrUnauthenticated
	}

	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateJoining
	c.mu.Unlock()

	if err := c.cfg.API.JoinRoom(ctx, c.communityID); err != nil {
		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	c.seedHistory(ctx)

	connected := false
	err := c.cfg.Transport.Connect(ctx, c.communityID, token, c.appendMessage, c.transportError)
	if err != nil {
		// Membership is registered; the panel opens without a live feed.
		logger.Error("Chat transport for room %d failed: %v", c.communityID, err)
		c.transportError(err)
	} else {
		connected = true
	}

	c.mu.Lock()
	c.state = StateOpen
	stop := make(chan struct{})
	c.pollStop = stop
	c.mu.Unlock()

	go c.pollParticipants(stop)

	if connected && c.cfg.OnConnected != nil {
		c.cfg.OnConnected(c.communityID)
	}
	return nil
}

// Leave unregisters membership and tears the session down. The user
// confirmation gate lives in the presentation layer; callers invoke Leave
// only after it. On backend failure the state is unchanged so the user can
// retry.
func (c *Controller) Leave(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateOpen || c.leaving {
		c.mu.Unlock()
		return nil
	}
	c.leaving = true
	c.mu.Unlock()

	if err := c.cfg.API.LeaveRoom(ctx, c.communityID); err != nil {
		c.mu.Lock()
		c.leaving = false
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrLeaveFailed, err)
	}

	c.teardown()
	c.mu.Lock()
	c.leaving = false
	c.mu.Unlock()

	if c.cfg.OnRoomLeft != nil {
		c.cfg.OnRoomLeft(c.communityID)
	}
	return nil
}

// Close dismisses the panel without giving up room membership: the transport
// is released and the session returns to closed, but no leave call is made.
// Idempotent.
func (c *Controller) Close() {
	c.teardown()
}

func (c *Controller) teardown() {
	c.mu.Lock()
	stop := c.pollStop
	c.pollStop = nil
	c.state = StateClosed
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	c.cfg.Transport.Disconnect()
}

// Send publishes the content to the room's outbound topic. Empty or
// whitespace-only content and a missing live connection are silent no-ops.
// Fire-and-forget: the message shows up in the log only once the server
// echoes it back on the subscription.
func (c *Controller) Send(content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	if err := c.Publish(content); err != nil {
		logger.Error("Failed to send message to room %d: %v", c.communityID, err)
	}
}

// Publish is the error-reporting variant of Send, used by callers that need
// to know whether delivery onto the outbound topic was accepted (the share
// broker's dedup record depends on it).
func (c *Controller) Publish(content string) error {
	c.mu.Lock()
	open := c.state == StateOpen
	c.mu.Unlock()
	if !open || !c.cfg.Transport.Connected() {
		return transport.ErrNotConnected
	}
	return c.cfg.Transport.Publish(c.communityID, content)
}

// Connected reports whether the room is open with a live transport.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	open := c.state == StateOpen
	c.mu.Unlock()
	return open && c.cfg.Transport.Connected()
}

// appendMessage keeps arrival order and truncates to the newest maxLogSize.
func (c *Controller) appendMessage(msg models.ChatMessage) {
	c.mu.Lock()
	c.log = append(c.log, msg)
	if len(c.log) > maxLogSize {
		c.log = c.log[len(c.log)-maxLogSize:]
	}
	c.mu.Unlock()

	if c.cfg.OnMessage != nil {
		c.cfg.OnMessage(msg)
	}
}

// seedHistory loads prior messages into the log. History is a convenience:
// failure degrades to an empty log.
func (c *Controller) seedHistory(ctx context.Context) {
	history, err := c.cfg.API.ChatHistory(ctx, c.communityID)
	if err != nil {
		logger.Error("Failed to load history for room %d: %v", c.communityID, err)
		return
	}
	if len(history) > maxLogSize {
		history = history[len(history)-maxLogSize:]
	}
	c.mu.Lock()
	c.log = append([]models.ChatMessage(nil), history...)
	c.mu.Unlock()
}

// pollParticipants refreshes the headcount on a fixed interval while the
// panel is open. Best-effort telemetry: a failed poll resets the count to
// zero instead of retrying aggressively.
func (c *Controller) pollParticipants(stop <-chan struct{}) {
	c.refreshParticipants()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.refreshParticipants()
		}
	}
}

func (c *Controller) refreshParticipants() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.PollInterval)
	defer cancel()

	count := 0
	participants, err := c.cfg.API.ChatParticipants(ctx, c.communityID)
	if err != nil {
		logger.Debug("Participant poll for room %d failed: %v", c.communityID, err)
	} else {
		count = len(participants)
	}

	c.mu.Lock()
	c.participants = count
	c.mu.Unlock()
}

func (c *Controller) transportError(err error) {
	logger.Error("Chat transport error in room %d: %v", c.communityID, err)
	if c.cfg.OnTransportError != nil {
		c.cfg.OnTransportError(err)
	}
}
