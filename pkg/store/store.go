// Package store holds sessions and their batches in memory behind a
// repository interface, so the engine can be tested against deterministic
// fixtures and a persistent backend can be substituted later.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/figbridge/figbridge/pkg/scene"
)

// Status is a session lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// BatchMeta identifies where a batch came from.
type BatchMeta struct {
	FileKey string `json:"fileKey,omitempty"`
	Name    string `json:"name,omitempty"`
	PageID  string `json:"pageId,omitempty"`
}

// Batch is one ingestion unit: canonical root trees plus metadata.
type Batch struct {
	Meta     BatchMeta     `json:"meta"`
	Roots    []*scene.Node `json:"roots"`
	StoredAt time.Time     `json:"storedAt"`
}

// Session groups the batches received under one identifier.
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	Status       Status    `json:"status"`
	Batches      []*Batch  `json:"batches"`
}

// ComponentCount returns the number of stored root components.
func (s *Session) ComponentCount() int {
	n := 0
	for _, b := range s.Batches {
		n += len(b.Roots)
	}
	return n
}

// Repository is the session store contract. Implementations must make each
// method atomic with respect to the others.
type Repository interface {
	// Upsert returns the session with the given id, creating it (active,
	// with creation time set) when absent.
	Upsert(id string) *Session
	// Get returns a snapshot of the session, or false when unknown.
	Get(id string) (*Session, bool)
	// AppendBatch stores a batch under the session, creating the session
	// when needed, and bumps its last-activity time.
	AppendBatch(id string, batch *Batch) *Session
	// FindComponent locates a stored root component by id within a session.
	FindComponent(sessionID, componentID string) (*scene.Node, bool)
	// Delete removes the session and its batches; returns false when the
	// session was unknown.
	Delete(id string) bool
	// List returns snapshots of all sessions, newest activity first.
	List() []*Session
}

// Memory is the in-process Repository. All state dies with the process by
// design; nothing here persists.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (m *Memory) Upsert(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertLocked(id)
}

func (m *Memory) upsertLocked(id string) *Session {
	if s, ok := m.sessions[id]; ok {
		return s
	}
	now := m.now()
	s := &Session{ID: id, CreatedAt: now, LastActivity: now, Status: StatusActive}
	m.sessions[id] = s
	return s
}

func (m *Memory) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	snapshot := *s
	snapshot.Batches = append([]*Batch{}, s.Batches...)
	return &snapshot, true
}

func (m *Memory) AppendBatch(id string, batch *Batch) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.upsertLocked(id)
	batch.StoredAt = m.now()
	s.Batches = append(s.Batches, batch)
	s.LastActivity = batch.StoredAt
	return s
}

func (m *Memory) FindComponent(sessionID, componentID string) (*scene.Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	for _, b := range s.Batches {
		for _, root := range b.Roots {
			if root.ID == componentID {
				return root, true
			}
		}
	}
	return nil, false
}

func (m *Memory) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *Memory) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		snapshot := *s
		snapshot.Batches = append([]*Batch{}, s.Batches...)
		out = append(out, &snapshot)
	}
	sortSessions(out)
	return out
}

func sortSessions(sessions []*Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActivity.After(sessions[j].LastActivity)
	})
}
