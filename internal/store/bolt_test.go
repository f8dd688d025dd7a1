package store

import (
	"path/filepath"
	"testing"
	"time"

	"board-client/internal/models"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	loaded, err := s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected no session in fresh store, got %+v", loaded)
	}

	session := &models.Session{
		Token: "token-abc",
		User: models.User{
			ID:           7,
			Name:         "alice",
			Email:        "alice@example.com",
			ProfileImage: "http://localhost:8080/uploads/a.png",
		},
	}
	if err := s.SaveSession(session); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	loaded, err = s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected persisted session, got nil")
	}
	if loaded.Token != session.Token || loaded.User != session.User {
		t.Errorf("loaded session %+v, want %+v", loaded, session)
	}

	if err := s.ClearSession(); err != nil {
		t.Fatalf("ClearSession() failed: %v", err)
	}
	loaded, err = s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() after clear failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected session cleared, got %+v", loaded)
	}
}

func TestShareDedupRecords(t *testing.T) {
	s := openTestStore(t)

	if _, found, err := s.LastShared(42, 3); err != nil || found {
		t.Fatalf("LastShared() on empty store = found %v, err %v", found, err)
	}

	at := time.Now().Truncate(time.Millisecond)
	if err := s.RecordShared(42, 3, at); err != nil {
		t.Fatalf("RecordShared() failed: %v", err)
	}

	got, found, err := s.LastShared(42, 3)
	if err != nil {
		t.Fatalf("LastShared() failed: %v", err)
	}
	if !found {
		t.Fatal("expected dedup record after RecordShared()")
	}
	if !got.Equal(at) {
		t.Errorf("LastShared() = %v, want %v", got, at)
	}

	// A different (post, community) pair is independent.
	if _, found, _ := s.LastShared(42, 4); found {
		t.Error("dedup record leaked across community keys")
	}
	if _, found, _ := s.LastShared(43, 3); found {
		t.Error("dedup record leaked across post keys")
	}
}

func TestPendingShareSlot(t *testing.T) {
	s := openTestStore(t)

	req, err := s.LoadPendingShare()
	if err != nil {
		t.Fatalf("LoadPendingShare() failed: %v", err)
	}
	if req != nil {
		t.Fatalf("expected empty pending slot, got %+v", req)
	}

	first := &models.ShareRequest{PostID: 42, PostTitle: "hello", CommunityID: 3, Timestamp: 1000}
	if err := s.SavePendingShare(first); err != nil {
		t.Fatalf("SavePendingShare() failed: %v", err)
	}

	// The slot holds a single request; a second save supersedes the first.
	second := &models.ShareRequest{PostID: 99, PostTitle: "newer", CommunityID: 5, Timestamp: 2000}
	if err := s.SavePendingShare(second); err != nil {
		t.Fatalf("SavePendingShare() overwrite failed: %v", err)
	}

	req, err = s.LoadPendingShare()
	if err != nil {
		t.Fatalf("LoadPendingShare() failed: %v", err)
	}
	if req == nil || *req != *second {
		t.Errorf("LoadPendingShare() = %+v, want %+v", req, second)
	}

	if err := s.ClearPendingShare(); err != nil {
		t.Fatalf("ClearPendingShare() failed: %v", err)
	}
	req, _ = s.LoadPendingShare()
	if req != nil {
		t.Errorf("expected pending slot cleared, got %+v", req)
	}
}

func TestReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.SaveSession(&models.Session{Token: "t", User: models.User{ID: 1}}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	session, err := s.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() after reopen failed: %v", err)
	}
	if session == nil || session.Token != "t" {
		t.Errorf("session did not survive reopen: %+v", session)
	}
}
