package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/floorplan/internal/agent"
	"github.com/hpungsan/floorplan/internal/config"
	"github.com/hpungsan/floorplan/internal/db"
	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/ops"
)

const defaultListLimit = 20

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db         *sql.DB
	cfg        *config.Config
	editor     *ops.Editor
	bridge     *agent.Bridge
	exportsDir string
	logger     *zap.Logger
}

// NewHandlers wires handlers to one live editor. logger may be nil.
func NewHandlers(database *sql.DB, cfg *config.Config, editor *ops.Editor, exportsDir string, logger *zap.Logger) *Handlers {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		db:         database,
		cfg:        cfg,
		editor:     editor,
		bridge:     agent.NewBridge(editor, logger),
		exportsDir: exportsDir,
		logger:     logger,
	}
}

// Request types for each tool

// NewRequest represents the arguments for floorplan_new.
type NewRequest struct {
	Name string `json:"name,omitempty"`
}

// IDRequest represents the arguments for tools addressing a saved floorplan.
type IDRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for floorplan_list.
type ListRequest struct {
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// PathRequest represents the arguments for export and import.
type PathRequest struct {
	Path string `json:"path,omitempty"`
}

// Response types

// SnapshotResponse is the floorplan_snapshot result.
type SnapshotResponse struct {
	Floorplan *floorplan.Floorplan `json:"floorplan"`
	History   ops.HistoryState     `json:"history"`
}

// ListResponse is the floorplan_list result.
type ListResponse struct {
	Items  []db.Summary `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// commandHandler runs one agent command through the bridge. Every MCP call
// is a distinct invocation, so it gets a fresh id.
func (h *Handlers) commandHandler(command string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return errorResult(errors.NewInvalidRequest(err.Error())), nil
		}

		res := h.bridge.Execute(agent.Invocation{
			ID:        uuid.NewString(),
			Name:      command,
			Arguments: args,
		})
		if res.Error != nil {
			return errorResult(res.Error), nil
		}
		return successResult(res)
	}
}

// HandleContext handles the floorplan_context tool call.
func (h *Handlers) HandleContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(h.bridge.Context()), nil
}

// HandleSnapshot handles the floorplan_snapshot tool call.
func (h *Handlers) HandleSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(SnapshotResponse{
		Floorplan: h.editor.Snapshot(),
		History:   h.editor.History(),
	})
}

// HandleNew handles the floorplan_new tool call.
func (h *Handlers) HandleNew(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, perr := bindArgs[NewRequest](req)
	if perr != nil {
		return errorResult(perr), nil
	}

	doc := ops.NewDocument(input.Name, h.cfg)
	h.editor.Load(doc)
	h.bridge.NewSession()

	return successResult(map[string]any{"id": doc.ID, "name": doc.Name})
}

// HandleSave handles the floorplan_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := db.Save(h.db, h.editor.Snapshot())
	if err != nil {
		return errorResult(err), nil
	}

	h.logger.Info("floorplan saved", zap.String("floorplan_id", rec.ID))
	return successResult(rec.Summary())
}

// HandleOpen handles the floorplan_open tool call.
func (h *Handlers) HandleOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, perr := bindArgs[IDRequest](req)
	if perr != nil {
		return errorResult(perr), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	doc, err := db.Load(h.db, input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	h.editor.Load(doc)
	h.bridge.NewSession()

	counts := doc.Counts()
	return successResult(ops.ImportOutput{
		ID:       doc.ID,
		Name:     doc.Name,
		Counts:   counts,
		Elements: counts.Total(),
	})
}

// HandleList handles the floorplan_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, perr := bindArgs[ListRequest](req)
	if perr != nil {
		return errorResult(perr), nil
	}
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	items, total, err := db.List(h.db, db.ListOptions{
		Name:   input.Name,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(ListResponse{
		Items:  items,
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// HandleDelete handles the floorplan_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, perr := bindArgs[IDRequest](req)
	if perr != nil {
		return errorResult(perr), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	if err := db.SoftDelete(h.db, input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"id": input.ID, "deleted": true})
}

// HandleExport handles the floorplan_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, perr := bindArgs[PathRequest](req)
	if perr != nil {
		return errorResult(perr), nil
	}

	result, err := ops.Export(ctx, h.editor, h.exportsDir, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the floorplan_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, perr := bindArgs[PathRequest](req)
	if perr != nil {
		return errorResult(perr), nil
	}

	result, err := ops.Import(h.editor, ops.ImportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}
	h.bridge.NewSession()

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if pErr, ok := errors.As(err); ok {
		msg := pErr.Message
		if error(pErr) != err {
			msg = err.Error() // keep the wrapping context
		}
		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": msg,
			"status":  pErr.Status,
		}
		if pErr.Code != errors.ErrInternal && pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
