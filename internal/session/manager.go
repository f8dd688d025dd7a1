package session

import (
	"fmt"
	"strings"
	"sync"

	"board-client/internal/models"
	"board-client/internal/store"
)

// Manager is the explicit session context object: it owns the current login
// state for the lifetime of the app, backed by the persisted session store.
// Created at app start (loading any persisted session), torn down at logout.
type Manager struct {
	mu      sync.RWMutex
	store   store.SessionRepository
	apiBase string
	current *models.Session
}

func NewManager(st store.SessionRepository, apiBase string) (*Manager, error) {
	m := &Manager{store: st, apiBase: strings.TrimRight(apiBase, "/")}

	session, err := st.LoadSession()
	if err != nil {
		// A corrupt persisted session is recoverable by logging in again.
		if clearErr := st.ClearSession(); clearErr != nil {
			return nil, fmt.Errorf("failed to reset corrupt session: %w", clearErr)
		}
		return m, nil
	}
	m.current = session
	return m, nil
}

// Token implements api.TokenSource. Returns "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

func (m *Manager) LoggedIn() bool {
	return m.Token() != ""
}

// User returns a copy of the current user record, or nil when logged out.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	user := m.current.User
	return &user
}

// UserID recovers the user's id from the token claims, falling back to the
// persisted user record when the token carries no id claim.
func (m *Manager) UserID() int {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()
	if current == nil {
		return 0
	}
	if id, err := UserIDFromToken(current.Token); err == nil {
		return id
	}
	return current.User.ID
}

// Establish stores a fresh login: the user's profile image reference is
// normalized before the session is persisted.
func (m *Manager) Establish(session *models.Session) error {
	normalized := *session
	normalized.User.ProfileImage = NormalizeProfileImage(session.User.ProfileImage, m.apiBase)

	if err := m.store.SaveSession(&normalized); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.current = &normalized
	m.mu.Unlock()
	return nil
}

// Update replaces the user record after a profile refresh, keeping the token.
func (m *Manager) Update(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return fmt.Errorf("no active session")
	}

	refreshed := *m.current
	refreshed.User = *user
	refreshed.User.ProfileImage = NormalizeProfileImage(user.ProfileImage, m.apiBase)

	if err := m.store.SaveSession(&refreshed); err != nil {
		return fmt.Errorf("failed to persist refreshed session: %w", err)
	}
	m.current = &refreshed
	return nil
}

// Clear tears the session down: memory and persisted state.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return m.store.ClearSession()
}

// NormalizeProfileImage repairs backend image references: a missing slash
// after the uploads prefix, and relative paths that need the API origin
// prepended. The "default.png" placeholder passes through untouched.
func NormalizeProfileImage(image, apiBase string) string {
	if image == "" || image == "default.png" {
		return image
	}
	if strings.HasPrefix(image, "/uploads") && !strings.HasPrefix(image, "/uploads/") {
		image = strings.Replace(image, "/uploads", "/uploads/", 1)
	}
	if !strings.HasPrefix(image, "http") {
		image = apiBase + image
	}
	return image
}
