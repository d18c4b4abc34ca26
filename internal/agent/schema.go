package agent

import (
	"encoding/json"
	"fmt"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// compiledSchema holds both forms of one command's argument schema.
type compiledSchema struct {
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

var schemaCache sync.Map // command name -> *compiledSchema

var reflector = &invopop.Reflector{
	DoNotReference: true,
	Anonymous:      true,
}

// Schema returns the JSON Schema for a command's arguments.
func Schema(name string) (json.RawMessage, error) {
	s, err := schemaFor(name)
	if err != nil {
		return nil, err
	}
	return s.raw, nil
}

func schemaFor(name string) (*compiledSchema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*compiledSchema), nil
	}

	canonical, spec, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("no schema for unknown command %q", name)
	}

	raw, err := json.Marshal(reflector.Reflect(spec.prototype))
	if err != nil {
		return nil, fmt.Errorf("reflect %s schema: %w", canonical, err)
	}
	compiled, err := jsonschema.CompileString(canonical+".schema.json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", canonical, err)
	}

	s := &compiledSchema{raw: raw, compiled: compiled}
	actual, _ := schemaCache.LoadOrStore(name, s)
	return actual.(*compiledSchema), nil
}

// validateArguments checks raw arguments against a command's schema.
func validateArguments(name string, raw json.RawMessage) error {
	s, err := schemaFor(name)
	if err != nil {
		return err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	return s.compiled.Validate(decoded)
}
