package session

import (
	"path/filepath"
	"testing"
	"time"

	"board-client/internal/models"
	"board-client/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

const testAPIBase = "http://localhost:8080"

func openTestStore(t *testing.T) *store.BoltStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestEstablishPersistsAcrossManagers(t *testing.T) {
	st := openTestStore(t)

	mgr, err := NewManager(st, testAPIBase)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	if mgr.LoggedIn() {
		t.Fatal("fresh manager should not be logged in")
	}

	session := &models.Session{
		Token: signedToken(t, jwt.MapClaims{"userId": float64(7)}),
		User:  models.User{ID: 7, Name: "alice", Email: "a@b.c"},
	}
	if err := mgr.Establish(session); err != nil {
		t.Fatalf("Establish() failed: %v", err)
	}
	if !mgr.LoggedIn() {
		t.Fatal("manager should be logged in after Establish()")
	}

	// A second manager on the same store sees the persisted session.
	mgr2, err := NewManager(st, testAPIBase)
	if err != nil {
		t.Fatalf("NewManager() reload failed: %v", err)
	}
	if mgr2.Token() != session.Token {
		t.Errorf("reloaded Token() = %q, want %q", mgr2.Token(), session.Token)
	}
	if user := mgr2.User(); user == nil || user.Name != "alice" {
		t.Errorf("reloaded User() = %+v", user)
	}
}

func TestClearTearsDownSession(t *testing.T) {
	st := openTestStore(t)
	mgr, err := NewManager(st, testAPIBase)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	session := &models.Session{Token: "tok", User: models.User{ID: 1}}
	if err := mgr.Establish(session); err != nil {
		t.Fatalf("Establish() failed: %v", err)
	}
	if err := mgr.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	if mgr.LoggedIn() {
		t.Error("manager still logged in after Clear()")
	}
	if persisted, _ := st.LoadSession(); persisted != nil {
		t.Errorf("session still persisted after Clear(): %+v", persisted)
	}
}

func TestUserIDFromTokenClaims(t *testing.T) {
	st := openTestStore(t)
	mgr, err := NewManager(st, testAPIBase)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	token := signedToken(t, jwt.MapClaims{"userId": float64(42), "email": "a@b.c"})
	if err := mgr.Establish(&models.Session{Token: token, User: models.User{ID: 1}}); err != nil {
		t.Fatalf("Establish() failed: %v", err)
	}

	// The token claim wins over the stored user record.
	if got := mgr.UserID(); got != 42 {
		t.Errorf("UserID() = %d, want 42", got)
	}
}

func TestUserIDFallsBackToUserRecord(t *testing.T) {
	st := openTestStore(t)
	mgr, err := NewManager(st, testAPIBase)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	if err := mgr.Establish(&models.Session{Token: "not-a-jwt", User: models.User{ID: 9}}); err != nil {
		t.Fatalf("Establish() failed: %v", err)
	}
	if got := mgr.UserID(); got != 9 {
		t.Errorf("UserID() = %d, want fallback 9", got)
	}
}

func TestTokenExpired(t *testing.T) {
	live := signedToken(t, jwt.MapClaims{"exp": float64(time.Now().Add(time.Hour).Unix())})
	if TokenExpired(live) {
		t.Error("token with future exp reported expired")
	}

	stale := signedToken(t, jwt.MapClaims{"exp": float64(time.Now().Add(-time.Hour).Unix())})
	if !TokenExpired(stale) {
		t.Error("token with past exp reported live")
	}

	if !TokenExpired("garbage") {
		t.Error("undecodable token must count as expired")
	}
}

func TestNormalizeProfileImage(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{"empty passthrough", "", ""},
		{"default placeholder passthrough", "default.png", "default.png"},
		{"absolute url untouched", "http://cdn.example.com/a.png", "http://cdn.example.com/a.png"},
		{"missing uploads slash repaired", "/uploadsa.png", testAPIBase + "/uploads/a.png"},
		{"relative path gets origin", "/uploads/a.png", testAPIBase + "/uploads/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeProfileImage(tt.image, testAPIBase); got != tt.want {
				t.Errorf("NormalizeProfileImage(%q) = %q, want %q", tt.image, got, tt.want)
			}
		})
	}
}
