// Package realtime keeps the live WebSocket connections and pushes notifications over them.
package realtime

import (
	"sort"
	"sync"
)

// Registry maps each online user to their newest connection.
type Registry interface {
	// Register binds userID to connID and reports whether the online set changed.
	Register(userID, connID string) bool
	// Unregister drops connID. A user whose mapping already points at a newer connection stays online.
	// It reports the user that went offline, if any.
	Unregister(connID string) (userID string, wentOffline bool)
	ConnectionFor(userID string) (connID string, ok bool)
	OnlineUsers() []string
}

// MemoryRegistry is a mutex-guarded Registry for a single process.
type MemoryRegistry struct {
	mu     sync.RWMutex
	byUser map[string]string
	byConn map[string]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		byUser: make(map[string]string),
		byConn: make(map[string]string),
	}
}

func (r *MemoryRegistry) Register(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	released := false
	// a connection re-announcing as another user releases its old identity
	if prevUser, ok := r.byConn[connID]; ok && prevUser != userID && r.byUser[prevUser] == connID {
		delete(r.byUser, prevUser)
		released = true
	}
	_, wasOnline := r.byUser[userID]
	r.byUser[userID] = connID
	r.byConn[connID] = userID
	return !wasOnline || released
}

func (r *MemoryRegistry) Unregister(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return "", false
	}
	delete(r.byConn, connID)
	if r.byUser[userID] != connID {
		return userID, false
	}
	delete(r.byUser, userID)
	return userID, true
}

func (r *MemoryRegistry) ConnectionFor(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byUser[userID]
	return connID, ok
}

// OnlineUsers returns user ids in ascending order.
func (r *MemoryRegistry) OnlineUsers() []string {
	r.mu.RLock()
	users := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		users = append(users, userID)
	}
	r.mu.RUnlock()

	sort.Strings(users)
	return users
}

var _ Registry = (*MemoryRegistry)(nil)
