package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/figbridge/figbridge/pkg/emit"
	"github.com/figbridge/figbridge/pkg/engine"
	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/store"
)

// jsonResult marshals v as the tool call's text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// parseComponents decodes the "components" argument. The empty string means
// the argument was omitted.
func parseComponents(payload string) ([]scene.RawNode, error) {
	if payload == "" {
		return nil, nil
	}
	var raw []scene.RawNode
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("invalid components payload: %w", err)
	}
	return raw, nil
}

func (s *Server) handleIngestComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := req.RequireString("components")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := parseComponents(payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(raw) == 0 {
		return mcp.NewToolResultError("components must be a non-empty JSON array"), nil
	}

	meta := store.BatchMeta{
		FileKey: req.GetString("fileKey", ""),
		Name:    req.GetString("fileName", ""),
		PageID:  req.GetString("pageId", ""),
	}
	res, err := s.engine.Ingest(req.GetString("sessionId", ""), meta, raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) handleGetComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sess, err := s.engine.GetBatch(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(sess)
}

// transformOptions builds emit.Options from a tool call's arguments.
func transformOptions(req mcp.CallToolRequest) emit.Options {
	return emit.Options{
		Framework:               emit.Framework(req.GetString("framework", "")),
		Styling:                 emit.Styling(req.GetString("styling", "")),
		Naming:                  emit.Naming(req.GetString("namingConvention", "")),
		TypedOutput:             req.GetBool("typedOutput", false),
		IncludeProps:            req.GetBool("includeProps", false),
		IncludeTypeDeclarations: req.GetBool("includeTypeDeclarations", false),
		GenerateStorybookStub:   req.GetBool("generateStorybookStub", false),
		GenerateTestStub:        req.GetBool("generateTestStub", false),
		ExtractTokens:           req.GetBool("extractTokens", false),
	}
}

func (s *Server) handleTransformComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := parseComponents(req.GetString("components", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID := req.GetString("sessionId", "")
	opts := transformOptions(req)

	var res *engine.TransformResult
	switch {
	case len(raw) > 0:
		res, err = s.engine.Transform(sessionID, raw, opts)
	case sessionID != "":
		res, err = s.engine.TransformStored(sessionID, opts)
	default:
		return mcp.NewToolResultError("either components or sessionId is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) handleExtractTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := parseComponents(req.GetString("components", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(raw) > 0 {
		toks, err := s.engine.ExtractTokens(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(toks)
	}
	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return mcp.NewToolResultError("either components or sessionId is required"), nil
	}
	toks, err := s.engine.ExtractStoredTokens(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(toks)
}

func (s *Server) handleAnalyzeComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := parseComponents(req.GetString("components", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(raw) > 0 {
		analyses, err := s.engine.Analyze(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(analyses)
	}
	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		return mcp.NewToolResultError("either components or sessionId is required"), nil
	}
	analyses, err := s.engine.AnalyzeStored(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(analyses)
}

func (s *Server) handleSearchComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 0)
	return jsonResult(s.engine.Search(query, limit))
}

func (s *Server) handleUpdateComponentName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	componentID, err := req.RequireString("componentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.engine.UpdateAlias(sessionID, componentID, name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"updated": true, "componentId": componentID})
}

func (s *Server) handleDeleteSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.engine.DeleteSession(sessionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"deleted": true, "sessionId": sessionID})
}

type sessionSummary struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	ComponentCount int    `json:"componentCount"`
	CreatedAt      string `json:"createdAt"`
	LastActivity   string `json:"lastActivity"`
}

func (s *Server) handleListSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := s.engine.Sessions()
	summaries := make([]sessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, sessionSummary{
			ID:             sess.ID,
			Status:         string(sess.Status),
			ComponentCount: sess.ComponentCount(),
			CreatedAt:      sess.CreatedAt.UTC().Format(time.RFC3339),
			LastActivity:   sess.LastActivity.UTC().Format(time.RFC3339),
		})
	}
	return jsonResult(summaries)
}
