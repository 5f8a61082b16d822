// Package alias maintains the registry mapping user-assigned component
// names to component references, with exact and partial search ranked by
// recency. The index never deduplicates by alias text, only by exact
// (session, component) pair.
package alias

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Ref identifies one indexed component.
type Ref struct {
	SessionID   string `json:"sessionId"`
	ComponentID string `json:"componentId"`
}

// Match is one search hit.
type Match struct {
	Alias     string    `json:"alias"`
	Ref       Ref       `json:"ref"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type entry struct {
	alias     string // normalized
	display   string // as assigned
	ref       Ref
	updatedAt time.Time
}

// Index is the in-memory alias registry. Safe for concurrent use; every
// mutation is applied atomically under one write lock, so a concurrent
// lookup observes either the full old state or the full new state.
type Index struct {
	mu    sync.RWMutex
	byRef map[Ref]*entry
	now   func() time.Time
}

// New creates an empty index.
func New() *Index {
	return &Index{
		byRef: make(map[Ref]*entry),
		now:   time.Now,
	}
}

// Normalize canonicalizes alias text for matching: trimmed and lowercased.
func Normalize(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// Put inserts or replaces the alias of one component. Any previous alias
// for the same (session, component) pair is removed in the same critical
// section, so no lookup can observe both or neither.
func (ix *Index) Put(sessionID, componentID, alias string) {
	normalized := Normalize(alias)
	if normalized == "" {
		return
	}
	ref := Ref{SessionID: sessionID, ComponentID: componentID}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.byRef[ref] = &entry{
		alias:     normalized,
		display:   strings.TrimSpace(alias),
		ref:       ref,
		updatedAt: ix.now(),
	}
}

// Remove deletes the alias entry of one component, if any.
func (ix *Index) Remove(sessionID, componentID string) {
	ref := Ref{SessionID: sessionID, ComponentID: componentID}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.byRef, ref)
}

// RemoveSession deletes every entry referencing the session.
func (ix *Index) RemoveSession(sessionID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for ref := range ix.byRef {
		if ref.SessionID == sessionID {
			delete(ix.byRef, ref)
		}
	}
}

// Len returns the number of indexed components.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byRef)
}

// Search returns two ranked lists: exact matches (case-insensitive
// equality) and partial matches (case-insensitive substring containment,
// excluding exact hits). Each list is ordered most-recent-update-first,
// with alias text then component id as deterministic tie-breakers. A
// non-positive limit means unlimited; the limit applies per tier.
func (ix *Index) Search(query string, limit int) (exact, partial []Match) {
	normalized := Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	ix.mu.RLock()
	for _, e := range ix.byRef {
		switch {
		case e.alias == normalized:
			exact = append(exact, matchOf(e))
		case strings.Contains(e.alias, normalized):
			partial = append(partial, matchOf(e))
		}
	}
	ix.mu.RUnlock()

	rank(exact)
	rank(partial)
	if limit > 0 {
		exact = truncate(exact, limit)
		partial = truncate(partial, limit)
	}
	return exact, partial
}

func matchOf(e *entry) Match {
	return Match{Alias: e.display, Ref: e.ref, UpdatedAt: e.updatedAt}
}

func rank(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].UpdatedAt.Equal(matches[j].UpdatedAt) {
			return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
		}
		if matches[i].Alias != matches[j].Alias {
			return matches[i].Alias < matches[j].Alias
		}
		return matches[i].Ref.ComponentID < matches[j].Ref.ComponentID
	})
}

func truncate(matches []Match, limit int) []Match {
	if len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
