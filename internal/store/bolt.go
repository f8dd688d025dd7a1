package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"board-client/internal/models"

	"go.etcd.io/bbolt"
)

var (
	bucketSession      = []byte("session")
	bucketShareDedup   = []byte("share_dedup")
	bucketPendingShare = []byte("pending_share")

	keySession      = []byte("current")
	keyPendingShare = []byte("pending")
)

// BoltStore keeps the client's local state (session, share dedup records,
// the deferred share slot) in a single bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

func Open(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSession, bucketShareDedup, bucketPendingShare} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Session Repository Implementation

func (s *BoltStore) SaveSession(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keySession, data)
	})
}

func (s *BoltStore) LoadSession() (*models.Session, error) {
	var session *models.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get(keySession)
		if data == nil {
			return nil
		}
		session = &models.Session{}
		return json.Unmarshal(data, session)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return session, nil
}

func (s *BoltStore) ClearSession() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Delete(keySession)
	})
}

// Share Dedup Repository Implementation

func dedupKey(postID, communityID int) []byte {
	return []byte(strconv.Itoa(postID) + ":" + strconv.Itoa(communityID))
}

func (s *BoltStore) LastShared(postID, communityID int) (time.Time, bool, error) {
	var (
		at    time.Time
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketShareDedup).Get(dedupKey(postID, communityID))
		if data == nil {
			return nil
		}
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("corrupt dedup record %q: %w", data, err)
		}
		at = time.UnixMilli(ms)
		found = true
		return nil
	})
	if err != nil {
		return time.Time{}, false, err
	}
	return at, found, nil
}

func (s *BoltStore) RecordShared(postID, communityID int, at time.Time) error {
	value := []byte(strconv.FormatInt(at.UnixMilli(), 10))
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketShareDedup).Put(dedupKey(postID, communityID), value)
	})
}

// Pending Share Repository Implementation

func (s *BoltStore) SavePendingShare(req *models.ShareRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode pending share: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPendingShare).Put(keyPendingShare, data)
	})
}

func (s *BoltStore) LoadPendingShare() (*models.ShareRequest, error) {
	var req *models.ShareRequest
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPendingShare).Get(keyPendingShare)
		if data == nil {
			return nil
		}
		req = &models.ShareRequest{}
		return json.Unmarshal(data, req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode pending share: %w", err)
	}
	return req, nil
}

func (s *BoltStore) ClearPendingShare() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPendingShare).Delete(keyPendingShare)
	})
}
