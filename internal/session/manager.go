package session

import (
	"encoding/json"
	"fmt"
	"sync"
)

// StorageKey is the local storage key holding the serialized credentials.
const StorageKey = "session"

// Storage is the subset of localstore.Store the manager needs.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Manager is the single authoritative session object. It keeps the in-memory
// Session and the persisted Credentials in step.
type Manager struct {
	mu      sync.RWMutex
	storage Storage
	session Session
	creds   Credentials
}

// Load restores the session from storage. A missing or unparsable record
// leaves the session logged out.
func Load(storage Storage) *Manager {
	m := &Manager{storage: storage, session: Default()}
	raw, ok := storage.Get(StorageKey)
	if !ok {
		return m
	}
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return m
	}
	m.session = Restore(creds)
	if m.session.LoggedIn {
		m.creds = creds
	}
	return m
}

// Session returns a copy of the current session.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Token returns the bearer credential, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds.Token
}

// UserID returns the signed-in identity, or "" when signed out.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds.ID
}

// SignedIn records a successful sign-in: the credentials are persisted first,
// then the session is logged in with the given role.
func (m *Manager) SignedIn(id, token, role string) error {
	parsed, err := ParseRole(role)
	if err != nil {
		return err
	}
	creds := Credentials{ID: id, Token: token, Role: string(parsed)}
	if !creds.Complete() {
		return fmt.Errorf("incomplete credentials")
	}
	payload, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.storage.Set(StorageKey, string(payload)); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	m.creds = creds
	m.session.Login()
	m.session.SetRole(parsed)
	return nil
}

// SignOut clears the persisted credentials and resets the session. The
// in-memory session is reset even if storage fails.
func (m *Manager) SignOut() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
	m.session.Logout()
	if err := m.storage.Remove(StorageKey); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
