package player

import (
	"sync"

	"github.com/google/uuid"
)

// SessionCookie carries the token that keys a browser session to its store.
const SessionCookie = "rf_session"

// SessionManager keeps one Store per browser session. Stores live for the
// process lifetime; after a restart they are rebuilt from the cookie mirror
// on the next request, which is why the mirror exists at all.
type SessionManager struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewSessionManager() *SessionManager {
	return &SessionManager{stores: make(map[string]*Store)}
}

// Attach returns the store for the session identified by the jar's session
// cookie, creating and hydrating one when the token is unknown. New sessions
// get a fresh token written back into the jar.
func (m *SessionManager) Attach(jar Jar) *Store {
	token, ok := jar.Get(SessionCookie)
	if !ok || token == "" {
		token = uuid.NewString()
		jar.Set(SessionCookie, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.stores[token]; ok {
		return st
	}

	// Unknown token: either a brand-new session or a server restart.
	// Rehydrate from whatever the cookie mirror still holds.
	st := Restore(LoadSnapshot(jar))
	m.stores[token] = st
	return st
}

// Drop forgets a session's store. Called on logout.
func (m *SessionManager) Drop(jar Jar) {
	token, ok := jar.Get(SessionCookie)
	if !ok {
		return
	}
	m.mu.Lock()
	delete(m.stores, token)
	m.mu.Unlock()
}
