// Package schema loads the canonical extraction schema: the single source of
// truth for what is requested from the inference provider and what validated
// output must look like.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/field_document.json
var schemaFS embed.FS

const resourceName = "schemas/field_document.json"

// Extraction is the loaded extraction schema in both the form sent to the
// provider (raw JSON) and the compiled form used for local validation.
type Extraction struct {
	doc      map[string]any
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

var (
	loadOnce sync.Once
	loaded   *Extraction
	loadErr  error
)

// Load returns the process-wide extraction schema, reading and compiling the
// embedded resource on first call. Subsequent calls return the cached value;
// the schema is read-only for the process lifetime.
func Load() (*Extraction, error) {
	loadOnce.Do(func() {
		loaded, loadErr = load()
	})
	return loaded, loadErr
}

func load() (*Extraction, error) {
	content, err := schemaFS.ReadFile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema resource: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema resource: %w", err)
	}

	// Closed world is enforced here rather than trusted from the file, so an
	// edit to the resource can't silently reopen the schema.
	forceClosedWorld(doc)

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("field_document.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	compiled, err := compiler.Compile("field_document.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Extraction{doc: doc, raw: raw, compiled: compiled}, nil
}

// forceClosedWorld sets additionalProperties=false on every object schema
// that declares properties. Nodes whose additionalProperties is itself a
// schema (the per-product total maps) keep it: there the map values are the
// declared shape.
func forceClosedWorld(node any) {
	switch n := node.(type) {
	case map[string]any:
		if _, hasProps := n["properties"]; hasProps {
			if _, isSchema := n["additionalProperties"].(map[string]any); !isSchema {
				n["additionalProperties"] = false
			}
		}
		for _, v := range n {
			forceClosedWorld(v)
		}
	case []any:
		for _, v := range n {
			forceClosedWorld(v)
		}
	}
}

// Raw returns the schema document as JSON, for inclusion in outbound
// provider requests. Callers must treat the returned bytes as read-only.
func (e *Extraction) Raw() json.RawMessage {
	return e.raw
}

// Doc returns the decoded schema document. Read-only.
func (e *Extraction) Doc() map[string]any {
	return e.doc
}

// Validate checks a decoded JSON value against the compiled schema.
// The returned error is a *jsonschema.ValidationError on mismatch.
func (e *Extraction) Validate(v any) error {
	return e.compiled.Validate(v)
}
