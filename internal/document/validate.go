package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fieldscan/fieldscan/internal/schema"
)

// ValidationError reports every violation found in a candidate payload, not
// just the first. Its Error() text is forwarded verbatim to the inference
// provider as corrective context, so each violation names the offending
// location.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "output does not conform to the extraction schema: " +
		strings.Join(e.Violations, "; ")
}

// Validate checks raw model output against the extraction schema and decodes
// it into a FieldDocument. Pure function of the input and the cached schema;
// on failure no document exists, only the error.
func Validate(raw []byte) (*FieldDocument, error) {
	ex, err := schema.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load extraction schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ValidationError{
			Violations: []string{fmt.Sprintf("response is not valid JSON: %v", err)},
		}
	}

	if err := ex.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, &ValidationError{Violations: flatten(ve)}
		}
		return nil, &ValidationError{Violations: []string{err.Error()}}
	}

	var doc FieldDocument
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, &ValidationError{
			Violations: []string{fmt.Sprintf("response does not decode: %v", err)},
		}
	}

	return &doc, nil
}

// flatten collects the leaf causes of a validation error into one violation
// per offending location.
func flatten(ve *jsonschema.ValidationError) []string {
	var violations []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			violations = append(violations, fmt.Sprintf("at %s: %s", loc, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return violations
}
