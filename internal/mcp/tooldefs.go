package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/floorplan/internal/agent"
)

func boolPtr(b bool) *bool { return &b }

// commandToolDef builds the tool for one agent command, reusing the
// command's argument schema verbatim.
func commandToolDef(name string, c agent.CommandInfo) mcp.Tool {
	tool := mcp.NewToolWithRawSchema(name, c.Description, c.Schema)
	tool.Annotations.Title = c.Name
	tool.Annotations.DestructiveHint = boolPtr(c.Destructive)
	tool.Annotations.ReadOnlyHint = boolPtr(false)
	return tool
}

var contextToolDef = mcp.NewTool("floorplan_context",
	mcp.WithDescription("Describe the live floorplan as markdown: settings, then every wall, door, window, room and furniture item with its id. Read this before editing."),
	mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
)

var snapshotToolDef = mcp.NewTool("floorplan_snapshot",
	mcp.WithDescription("Return the live floorplan document as JSON together with undo/redo availability."),
	mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
)

var newToolDef = mcp.NewTool("floorplan_new",
	mcp.WithDescription("Start a new empty floorplan, replacing the live one. Unsaved changes are lost and history is cleared."),
	mcp.WithString("name", mcp.Description("Name of the new floorplan")),
	mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
)

var saveToolDef = mcp.NewTool("floorplan_save",
	mcp.WithDescription("Save the live floorplan to the local store under its id, replacing any earlier save."),
)

var openToolDef = mcp.NewTool("floorplan_open",
	mcp.WithDescription("Open a saved floorplan by id, replacing the live one. History is cleared."),
	mcp.WithString("id", mcp.Description("Floorplan id from floorplan_list"), mcp.Required()),
	mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
)

var listToolDef = mcp.NewTool("floorplan_list",
	mcp.WithDescription("List saved floorplans, most recently updated first."),
	mcp.WithString("name", mcp.Description("Only floorplans with this name (case-insensitive)")),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 20)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
)

var deleteToolDef = mcp.NewTool("floorplan_delete",
	mcp.WithDescription("Delete a saved floorplan from the local store. The live floorplan is not affected."),
	mcp.WithString("id", mcp.Description("Floorplan id"), mcp.Required()),
	mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
)

var exportToolDef = mcp.NewTool("floorplan_export",
	mcp.WithDescription("Write the live floorplan to a .json file."),
	mcp.WithString("path", mcp.Description("Destination .json path (default: exports directory, named after the floorplan)")),
)

var importToolDef = mcp.NewTool("floorplan_import",
	mcp.WithDescription("Load a floorplan from an exported .json file, replacing the live one. Files with doors or windows on missing walls are rejected."),
	mcp.WithString("path", mcp.Description("Path to a .json file"), mcp.Required()),
	mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
)
