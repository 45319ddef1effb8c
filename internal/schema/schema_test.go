package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	ex, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ex == nil {
		t.Fatal("Load() returned nil schema")
	}

	t.Run("cached across calls", func(t *testing.T) {
		again, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if again != ex {
			t.Error("expected the same cached schema instance")
		}
	})

	t.Run("raw contains top-level records", func(t *testing.T) {
		raw := string(ex.Raw())
		for _, field := range []string{"barge", "port", "arrival", "departure"} {
			if !strings.Contains(raw, field) {
				t.Errorf("schema missing field %q", field)
			}
		}
	})
}

func TestForceClosedWorld(t *testing.T) {
	ex, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Every object with declared properties must forbid undeclared keys,
	// even if the embedded file were edited to drop the flag.
	var checkNode func(t *testing.T, path string, node any)
	checkNode = func(t *testing.T, path string, node any) {
		switch n := node.(type) {
		case map[string]any:
			if _, hasProps := n["properties"]; hasProps {
				if _, isSchema := n["additionalProperties"].(map[string]any); !isSchema {
					if n["additionalProperties"] != false {
						t.Errorf("node %s does not forbid additional properties", path)
					}
				}
			}
			for k, v := range n {
				checkNode(t, path+"/"+k, v)
			}
		case []any:
			for _, v := range n {
				checkNode(t, path+"[]", v)
			}
		}
	}
	checkNode(t, "", ex.Doc())
}

func TestForceClosedWorld_KeepsMapValues(t *testing.T) {
	node := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"totals": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number"},
			},
		},
	}
	forceClosedWorld(node)

	if node["additionalProperties"] != false {
		t.Error("outer object should forbid additional properties")
	}
	totals := node["properties"].(map[string]any)["totals"].(map[string]any)
	if _, ok := totals["additionalProperties"].(map[string]any); !ok {
		t.Error("schema-valued additionalProperties should be preserved")
	}
}

func TestValidate(t *testing.T) {
	ex, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	valid := `{
		"barge": {"name": "MV Harbor Star"},
		"port": {"vessel_name": "Gulf Trader"},
		"arrival": {"tanks": [{
			"tank_id": "1P", "product": "VGO", "api": 22.5,
			"ullage_ft": 4, "ullage_in": 6.25, "temperature_f": 98.4,
			"gross_bbls": 5230.12
		}]},
		"departure": {"tanks": [{
			"tank_id": "1P", "product": "VGO", "api": 22.5,
			"ullage_ft": 2, "ullage_in": 1.5, "temperature_f": 99.1,
			"gross_bbls": 8120.88
		}]}
	}`

	var v any
	if err := json.Unmarshal([]byte(valid), &v); err != nil {
		t.Fatalf("test payload invalid: %v", err)
	}
	if err := ex.Validate(v); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	t.Run("rejects undeclared top-level field", func(t *testing.T) {
		var v map[string]any
		if err := json.Unmarshal([]byte(valid), &v); err != nil {
			t.Fatal(err)
		}
		v["captain"] = "unknown"
		if err := ex.Validate(any(v)); err == nil {
			t.Error("expected validation error for undeclared field")
		}
	})

	t.Run("rejects empty tanks", func(t *testing.T) {
		var v map[string]any
		if err := json.Unmarshal([]byte(valid), &v); err != nil {
			t.Fatal(err)
		}
		v["arrival"].(map[string]any)["tanks"] = []any{}
		if err := ex.Validate(any(v)); err == nil {
			t.Error("expected validation error for empty tanks")
		}
	})
}
