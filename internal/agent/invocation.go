package agent

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/hpungsan/floorplan/internal/errors"
)

// Invocation is one structured tool call as extracted from the model stream.
type Invocation struct {
	ID        string          `json:"invocationId,omitempty"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Decode resolves an invocation into its Command variant.
//
// An unknown name yields Unknown and an UNKNOWN_COMMAND error. Arguments that
// fail the command's schema yield an INVALID_REQUEST error and a nil Command.
func Decode(inv Invocation) (Command, error) {
	name, spec, ok := lookup(inv.Name)
	if !ok {
		return Unknown{Name: inv.Name}, errors.NewUnknownCommand(inv.Name)
	}

	raw := normalizeArguments(inv.Arguments)
	if err := validateArguments(name, raw); err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	cmd, err := spec.decode(raw)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	return cmd, nil
}

// normalizeArguments treats absent or null arguments as an empty object.
func normalizeArguments(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return trimmed
}

// Key identifies an invocation for deduplication: its id when the stream
// supplied one, otherwise a hash of the name and canonicalized arguments.
func (inv Invocation) Key() string {
	if inv.ID != "" {
		return "id:" + inv.ID
	}
	h := sha256.New()
	h.Write([]byte(inv.Name))
	h.Write([]byte{0})
	h.Write(canonicalJSON(inv.Arguments))
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}

// canonicalJSON re-encodes raw with sorted object keys and no insignificant
// whitespace, so equal argument sets hash equally. Invalid JSON is returned
// trimmed as-is.
func canonicalJSON(raw json.RawMessage) []byte {
	raw = normalizeArguments(raw)
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	out, err := json.Marshal(v)
	if err != nil {
		return raw
	}
	return out
}
