package store

import (
	"time"

	"board-client/internal/models"
)

type SessionRepository interface {
	SaveSession(session *models.Session) error
	// LoadSession returns (nil, nil) when no session is persisted.
	LoadSession() (*models.Session, error)
	ClearSession() error
}

type ShareDedupRepository interface {
	// LastShared reports when the post was last shared into the community.
	// The second result is false when no record exists.
	LastShared(postID, communityID int) (time.Time, bool, error)
	RecordShared(postID, communityID int, at time.Time) error
}

type PendingShareRepository interface {
	// SavePendingShare overwrites the single deferred share slot.
	SavePendingShare(req *models.ShareRequest) error
	// LoadPendingShare returns (nil, nil) when the slot is empty.
	LoadPendingShare() (*models.ShareRequest, error)
	ClearPendingShare() error
}

type Store interface {
	SessionRepository
	ShareDedupRepository
	PendingShareRepository
	Close() error
}
