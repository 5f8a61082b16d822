// Package engine ties the stores, the style pipeline and the emitter
// together behind the request-facing operations. Every transport (MCP,
// WebSocket bridge, CLI, watcher) goes through this package.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/figbridge/figbridge/pkg/alias"
	"github.com/figbridge/figbridge/pkg/analyze"
	"github.com/figbridge/figbridge/pkg/emit"
	"github.com/figbridge/figbridge/pkg/notify"
	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/store"
	"github.com/figbridge/figbridge/pkg/tokens"
)

// emitComponent is swappable in tests to exercise partial-failure paths.
var emitComponent = emit.Emit

const defaultCacheSize = 256

// Engine executes the core operations against an in-memory session store
// and alias index. Safe for concurrent use.
type Engine struct {
	sessions store.Repository
	aliases  *alias.Index
	notifier notify.Publisher
	cache    *lru.Cache[string, *emit.Component]
	logger   *slog.Logger

	// mu serializes mutations that touch both the session store and the
	// alias index so lookups never observe a half-applied state.
	mu  sync.Mutex
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the event publisher. Defaults to notify.Nop.
func WithNotifier(p notify.Publisher) Option {
	return func(e *Engine) { e.notifier = p }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCacheSize overrides the emission cache capacity.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cache, _ = lru.New[string, *emit.Component](n)
		}
	}
}

// New creates an Engine with an empty in-memory store.
func New(opts ...Option) *Engine {
	cache, _ := lru.New[string, *emit.Component](defaultCacheSize)
	e := &Engine{
		sessions: store.NewMemory(),
		aliases:  alias.New(),
		notifier: notify.Nop{},
		cache:    cache,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	SessionID   string `json:"sessionId"`
	StoredCount int    `json:"storedCount"`
}

// Ingest validates and normalizes a batch of raw nodes, stores the
// canonical trees under the session, and indexes an alias per root. An
// empty sessionID creates a fresh session.
func (e *Engine) Ingest(sessionID string, meta store.BatchMeta, raw []scene.RawNode) (*IngestResult, error) {
	roots, err := scene.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	batch := &store.Batch{Meta: meta, Roots: roots, StoredAt: e.now()}

	e.mu.Lock()
	e.sessions.AppendBatch(sessionID, batch)
	for _, root := range roots {
		e.aliases.Put(sessionID, root.ID, root.DisplayName())
	}
	e.mu.Unlock()

	e.logger.Info("batch ingested",
		"session", sessionID,
		"components", len(roots),
		"fileKey", meta.FileKey)

	e.notifier.Publish(notify.Event{
		Type:      notify.EventComponentsReceived,
		SessionID: sessionID,
		Payload:   map[string]any{"storedCount": len(roots)},
	})

	return &IngestResult{SessionID: sessionID, StoredCount: len(roots)}, nil
}

// GetBatch returns the stored session snapshot.
func (e *Engine) GetBatch(sessionID string) (*store.Session, error) {
	sess, ok := e.sessions.Get(sessionID)
	if !ok {
		return nil, &NotFoundError{Kind: "session", ID: sessionID}
	}
	return sess, nil
}

// TransformResult reports a completed transformation.
type TransformResult struct {
	SessionID  string            `json:"sessionId,omitempty"`
	Components []*emit.Component `json:"components"`
	// Failed counts components whose emission failed; their slots carry
	// the error instead of artifacts.
	Failed int `json:"failed,omitempty"`
	// Tokens carries the design tokens of the transformed trees when the
	// extractTokens option is set.
	Tokens []tokens.Token `json:"tokens,omitempty"`
}

// Transform normalizes the raw nodes and emits one component per root.
// A root whose emission fails is reported in place with its error; the
// batch itself still succeeds. An unsupported framework/styling pair
// fails the whole call with emit.ConfigurationError before any emission.
func (e *Engine) Transform(sessionID string, raw []scene.RawNode, opts emit.Options) (*TransformResult, error) {
	if err := emit.CheckOptions(opts); err != nil {
		return nil, err
	}
	roots, err := scene.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	result := &TransformResult{SessionID: sessionID, Components: make([]*emit.Component, 0, len(roots))}
	for _, root := range roots {
		comp, err := e.emitCached(root, opts)
		if err != nil {
			result.Failed++
			comp = &emit.Component{
				ID:           root.ID,
				Name:         root.DisplayName(),
				SourceNodeID: root.ID,
				Error:        err.Error(),
			}
			e.logger.Warn("component emission failed", "node", root.ID, "error", err)
		}
		result.Components = append(result.Components, comp)
	}
	if opts.ExtractTokens {
		result.Tokens = tokens.Extract(roots)
	}

	e.notifier.Publish(notify.Event{
		Type:      notify.EventTransformationComplete,
		SessionID: sessionID,
		Payload: map[string]any{
			"componentCount": len(result.Components),
			"failed":         result.Failed,
		},
	})

	e.logger.Info("batch transformed",
		"session", sessionID,
		"components", len(result.Components),
		"failed", result.Failed,
		"framework", string(opts.Framework),
		"styling", string(opts.Styling))

	return result, nil
}

// TransformStored transforms the components already stored under a session.
func (e *Engine) TransformStored(sessionID string, opts emit.Options) (*TransformResult, error) {
	if err := emit.CheckOptions(opts); err != nil {
		return nil, err
	}
	sess, ok := e.sessions.Get(sessionID)
	if !ok {
		return nil, &NotFoundError{Kind: "session", ID: sessionID}
	}

	result := &TransformResult{SessionID: sessionID}
	var roots []*scene.Node
	for _, batch := range sess.Batches {
		for _, root := range batch.Roots {
			comp, err := e.emitCached(root, opts)
			if err != nil {
				result.Failed++
				comp = &emit.Component{
					ID:           root.ID,
					Name:         root.DisplayName(),
					SourceNodeID: root.ID,
					Error:        err.Error(),
				}
			}
			result.Components = append(result.Components, comp)
			roots = append(roots, root)
		}
	}
	if opts.ExtractTokens {
		result.Tokens = tokens.Extract(roots)
	}

	e.notifier.Publish(notify.Event{
		Type:      notify.EventTransformationComplete,
		SessionID: sessionID,
		Payload: map[string]any{
			"componentCount": len(result.Components),
			"failed":         result.Failed,
		},
	})
	return result, nil
}

func (e *Engine) emitCached(root *scene.Node, opts emit.Options) (*emit.Component, error) {
	key, ok := cacheKey(root, opts)
	if ok {
		if comp, hit := e.cache.Get(key); hit {
			return comp, nil
		}
	}
	comp, err := emitComponent(root, opts)
	if err != nil {
		return nil, err
	}
	if ok {
		e.cache.Add(key, comp)
	}
	return comp, nil
}

// cacheKey fingerprints the canonical tree plus the emission options.
// Emission is deterministic, so equal fingerprints mean equal output.
func cacheKey(root *scene.Node, opts emit.Options) (string, bool) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(root); err != nil {
		return "", false
	}
	if err := enc.Encode(opts); err != nil {
		return "", false
	}
	return hex.EncodeToString(h.Sum(nil)), true
}

// ExtractTokens normalizes the raw nodes and extracts design tokens.
func (e *Engine) ExtractTokens(raw []scene.RawNode) ([]tokens.Token, error) {
	roots, err := scene.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("extract tokens: %w", err)
	}
	return tokens.Extract(roots), nil
}

// ExtractStoredTokens extracts design tokens from a session's stored trees.
func (e *Engine) ExtractStoredTokens(sessionID string) ([]tokens.Token, error) {
	roots, err := e.storedRoots(sessionID)
	if err != nil {
		return nil, err
	}
	return tokens.Extract(roots), nil
}

// Analyze normalizes the raw nodes and analyzes each root.
func (e *Engine) Analyze(raw []scene.RawNode) ([]analyze.Analysis, error) {
	roots, err := scene.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return analyze.AnalyzeAll(roots), nil
}

// AnalyzeStored analyzes the trees stored under a session.
func (e *Engine) AnalyzeStored(sessionID string) ([]analyze.Analysis, error) {
	roots, err := e.storedRoots(sessionID)
	if err != nil {
		return nil, err
	}
	return analyze.AnalyzeAll(roots), nil
}

func (e *Engine) storedRoots(sessionID string) ([]*scene.Node, error) {
	sess, ok := e.sessions.Get(sessionID)
	if !ok {
		return nil, &NotFoundError{Kind: "session", ID: sessionID}
	}
	var roots []*scene.Node
	for _, batch := range sess.Batches {
		roots = append(roots, batch.Roots...)
	}
	return roots, nil
}

// SearchResult carries the two match tiers of an alias search.
type SearchResult struct {
	Exact   []alias.Match `json:"exact"`
	Partial []alias.Match `json:"partial"`
}

// Search looks the query up in the alias index.
func (e *Engine) Search(query string, limit int) SearchResult {
	exact, partial := e.aliases.Search(query, limit)
	return SearchResult{Exact: exact, Partial: partial}
}

// UpdateAlias renames a stored component. The component must exist in the
// session's stored batches; otherwise the index is left untouched.
func (e *Engine) UpdateAlias(sessionID, componentID, newAlias string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sessions.Get(sessionID); !ok {
		return &NotFoundError{Kind: "session", ID: sessionID}
	}
	if _, ok := e.sessions.FindComponent(sessionID, componentID); !ok {
		return &NotFoundError{Kind: "component", ID: componentID}
	}
	e.aliases.Put(sessionID, componentID, newAlias)
	e.logger.Info("alias updated", "session", sessionID, "component", componentID, "alias", newAlias)
	return nil
}

// DeleteSession removes the session, its batches and its alias entries.
func (e *Engine) DeleteSession(sessionID string) error {
	e.mu.Lock()
	if !e.sessions.Delete(sessionID) {
		e.mu.Unlock()
		return &NotFoundError{Kind: "session", ID: sessionID}
	}
	e.aliases.RemoveSession(sessionID)
	e.mu.Unlock()

	e.logger.Info("session deleted", "session", sessionID)
	e.notifier.Publish(notify.Event{
		Type:      notify.EventSessionDeleted,
		SessionID: sessionID,
	})
	return nil
}

// Sessions lists all sessions, newest activity first.
func (e *Engine) Sessions() []*store.Session {
	return e.sessions.List()
}
