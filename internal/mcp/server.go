package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/floorplan/internal/agent"
)

// ToolPrefix starts every tool name this server registers.
const ToolPrefix = "floorplan_"

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
// Editing tools mirror the agent command surface one to one; the rest manage
// the session and the saved-floorplan store.
var toolRegistry = buildRegistry()

func buildRegistry() map[string]toolEntry {
	reg := map[string]toolEntry{
		"floorplan_context": {
			def:     contextToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContext },
		},
		"floorplan_snapshot": {
			def:     snapshotToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSnapshot },
		},
		"floorplan_new": {
			def:     newToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNew },
		},
		"floorplan_save": {
			def:     saveToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSave },
		},
		"floorplan_open": {
			def:     openToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOpen },
		},
		"floorplan_list": {
			def:     listToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
		},
		"floorplan_delete": {
			def:     deleteToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
		},
		"floorplan_export": {
			def:     exportToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
		},
		"floorplan_import": {
			def:     importToolDef,
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
		},
	}

	commands, err := agent.Commands()
	if err != nil {
		panic(fmt.Sprintf("mcp: agent command schemas: %v", err))
	}
	for _, c := range commands {
		name := ToolName(c.Name)
		if _, taken := reg[name]; taken {
			panic("mcp: duplicate tool " + name)
		}
		command := c.Name
		reg[name] = toolEntry{
			def:     commandToolDef(name, c),
			handler: func(h *Handlers) server.ToolHandlerFunc { return h.commandHandler(command) },
		}
	}
	return reg
}

// ToolName maps an agent command name to its tool name:
// "addWall" becomes "floorplan_add_wall".
func ToolName(command string) string {
	var b strings.Builder
	b.WriteString(ToolPrefix)
	for _, r := range command {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AllToolNames returns every registered tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server exposing h's editor.
// Tools listed in the config's DisabledTools are not registered.
func NewServer(h *Handlers, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"floorplan",
		version,
		server.WithToolCapabilities(true),
	)

	disabled := make(map[string]bool)
	for _, name := range h.cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(h *Handlers, version string) error {
	s := NewServer(h, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
