package share

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"board-client/internal/models"
	"board-client/internal/store"
	"board-client/pkg/logger"
)

// DefaultDedupWindow suppresses repeat shares of the same post into the same
// room for ten minutes.
const DefaultDedupWindow = 10 * time.Minute

const shareMessageTemplate = "📢 Come talk about this one!\n\n%q\n\n%s/community/%d"

// RoomPublisher is the slice of a room session the broker needs: whether a
// live transport exists, and delivery onto the room's outbound topic.
type RoomPublisher interface {
	Connected() bool
	Publish(content string) error
}

// Broker decouples "share this post into community C" from the moment a live
// transport to C exists. Requests for an open, connected room are delivered
// immediately; otherwise a single deferred request is persisted and evaluated
// exactly once when that room next connects. Both paths pass the same dedup
// gate: at most one share per (post, community) per window.
type Broker struct {
	dedup   store.ShareDedupRepository
	pending store.PendingShareRepository
	window  time.Duration
	webBase string

	mu    sync.Mutex
	rooms map[int]RoomPublisher

	now func() time.Time // test seam
}

func NewBroker(st store.Store, window time.Duration, webBase string) *Broker {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Broker{
		dedup:   st,
		pending: st,
		window:  window,
		webBase: strings.TrimRight(webBase, "/"),
		rooms:   make(map[int]RoomPublisher),
		now:     time.Now,
	}
}

// RegisterRoom attaches a room session so live-path shares can reach it.
func (b *Broker) RegisterRoom(communityID int, room RoomPublisher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms[communityID] = room
}

func (b *Broker) UnregisterRoom(communityID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.rooms, communityID)
}

// Request raises a share. Live path when the target room has a connected
// transport; otherwise the request is persisted for the room's next connect.
func (b *Broker) Request(req models.ShareRequest) {
	if req.Timestamp == 0 {
		req.Timestamp = b.now().UnixMilli()
	}

	b.mu.Lock()
	room, live := b.rooms[req.CommunityID]
	b.mu.Unlock()

	if live && room.Connected() {
		b.deliver(room, req)
		return
	}

	if err := b.pending.SavePendingShare(&req); err != nil {
		logger.Error("Failed to persist deferred share for post %d: %v", req.PostID, err)
	}
}

// RoomConnected evaluates the deferred slot against the room that just came
// up. The pending request is consumed after one evaluation, whether it is
// delivered or suppressed by dedup.
func (b *Broker) RoomConnected(communityID int) {
	req, err := b.pending.LoadPendingShare()
	if err != nil {
		logger.Error("Failed to read deferred share: %v", err)
		return
	}
	if req == nil || req.CommunityID != communityID {
		return
	}

	if err := b.pending.ClearPendingShare(); err != nil {
		logger.Error("Failed to clear deferred share: %v", err)
	}

	b.mu.Lock()
	room, live := b.rooms[communityID]
	b.mu.Unlock()
	if !live {
		return
	}
	b.deliver(room, *req)
}

// deliver runs the dedup gate, publishes, and records the share. The dedup
// record is written only on successful publish so a failed share stays
// retryable on the next trigger.
func (b *Broker) deliver(room RoomPublisher, req models.ShareRequest) {
	last, found, err := b.dedup.LastShared(req.PostID, req.CommunityID)
	if err != nil {
		logger.Error("Dedup lookup for post %d failed: %v", req.PostID, err)
	}
	now := b.now()
	if found && now.Sub(last) < b.window {
		logger.Debug("Share of post %d into room %d suppressed by dedup", req.PostID, req.CommunityID)
		return
	}

	if err := room.Publish(b.Format(req)); err != nil {
		logger.Error("Failed to publish share of post %d: %v", req.PostID, err)
		return
	}

	if err := b.dedup.RecordShared(req.PostID, req.CommunityID, now); err != nil {
		logger.Error("Failed to record share of post %d: %v", req.PostID, err)
	}
}

// Format renders the canonical share message: the post title plus an
// absolute link. Renderers hyperlink any http(s):// substring.
func (b *Broker) Format(req models.ShareRequest) string {
	return fmt.Sprintf(shareMessageTemplate, req.PostTitle, b.webBase, req.PostID)
}
