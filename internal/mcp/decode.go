package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/floorplan/internal/errors"
)

// bindArgs copies tool arguments into a typed request. Unknown keys are
// ignored; type mismatches come back as INVALID_REQUEST.
func bindArgs[T any](req mcp.CallToolRequest) (T, *errors.PlanError) {
	var out T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, errors.NewInvalidRequest("arguments are not valid JSON")
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, errors.NewInvalidRequest("bad arguments: " + err.Error())
	}
	return out, nil
}
