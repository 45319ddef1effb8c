package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// validPayload returns a decoded copy of a fully valid document payload.
// Tests mutate the copy to probe individual validation rules.
func validPayload(t *testing.T) map[string]any {
	t.Helper()
	const payload = `{
		"barge": {"name": "MV Harbor Star", "voyage_number": "V-1042"},
		"port": {"vessel_name": "Gulf Trader", "port_city": "Corpus Christi"},
		"arrival": {
			"water_specific_gravity": 1.015,
			"drafts_ft": {"fwd_port": 4.5, "fwd_stbd": 4.5, "aft_port": 5.0, "aft_stbd": 5.1},
			"timestamps": {"arrival": "2024-03-04T06:30:00Z", "all_fast": "2024-03-04T07:05:00Z"},
			"tanks": [
				{"tank_id": "1P", "product": "VGO", "api": 22.5, "ullage_ft": 4,
				 "ullage_in": 6.25, "temperature_f": 98.4, "water_bbls": 1.2,
				 "gross_bbls": 5230.12, "net_bbls": 5180.44},
				{"tank_id": "1S", "product": "VGO", "api": 22.5, "ullage_ft": 4,
				 "ullage_in": 7.5, "temperature_f": 97.9, "gross_bbls": 5198.03}
			],
			"summary_by_product": {"VGO": {"gross_bbls": 10428.15, "net_bbls": 10330.91}}
		},
		"departure": {
			"tanks": [
				{"tank_id": "1P", "product": "VGO", "api": 22.5, "ullage_ft": 12,
				 "ullage_in": 0.5, "temperature_f": 99.0, "gross_bbls": 150.2}
			]
		},
		"products_loaded_discharged": {"VGO": {"gross_bbls": 10277.95, "metric_tons": 1480.3}}
	}`

	var v map[string]any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		t.Fatalf("test payload invalid: %v", err)
	}
	return v
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestValidate_Success(t *testing.T) {
	doc, err := Validate(marshal(t, validPayload(t)))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if doc.Barge.Name != "MV Harbor Star" {
		t.Errorf("Barge.Name = %q", doc.Barge.Name)
	}
	if doc.Port.VesselName != "Gulf Trader" {
		t.Errorf("Port.VesselName = %q", doc.Port.VesselName)
	}
	if len(doc.Arrival.Tanks) != 2 {
		t.Fatalf("len(Arrival.Tanks) = %d, want 2", len(doc.Arrival.Tanks))
	}
	if doc.Arrival.Tanks[0].GrossBbls != 5230.12 {
		t.Errorf("Tanks[0].GrossBbls = %v", doc.Arrival.Tanks[0].GrossBbls)
	}
	if doc.Arrival.Timestamps == nil || doc.Arrival.Timestamps.Arrival == nil {
		t.Error("arrival timestamp missing")
	}
	if got := doc.Arrival.SummaryByProduct["VGO"].GrossBbls; got != 10428.15 {
		t.Errorf("SummaryByProduct[VGO].GrossBbls = %v", got)
	}
	if doc.Departure.Timestamps != nil {
		t.Error("departure timestamps should be absent")
	}
}

func TestValidate_WaterBblsDefaultsToZero(t *testing.T) {
	// Tank 1S omits water_bbls entirely.
	doc, err := Validate(marshal(t, validPayload(t)))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if doc.Arrival.Tanks[0].WaterBbls != 1.2 {
		t.Errorf("Tanks[0].WaterBbls = %v, want 1.2", doc.Arrival.Tanks[0].WaterBbls)
	}
	if doc.Arrival.Tanks[1].WaterBbls != 0 {
		t.Errorf("Tanks[1].WaterBbls = %v, want 0", doc.Arrival.Tanks[1].WaterBbls)
	}
}

func TestValidate_RejectsUndeclaredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v map[string]any)
	}{
		{"top level", func(v map[string]any) {
			v["surveyor"] = "J. Smith"
		}},
		{"barge", func(v map[string]any) {
			v["barge"].(map[string]any)["captain"] = "unknown"
		}},
		{"port", func(v map[string]any) {
			v["port"].(map[string]any)["berth"] = "7A"
		}},
		{"arrival", func(v map[string]any) {
			v["arrival"].(map[string]any)["notes"] = "windy"
		}},
		{"drafts", func(v map[string]any) {
			drafts := v["arrival"].(map[string]any)["drafts_ft"].(map[string]any)
			drafts["mid_port"] = 4.8
		}},
		{"timestamps", func(v map[string]any) {
			ts := v["arrival"].(map[string]any)["timestamps"].(map[string]any)
			ts["lunch_break"] = "2024-03-04T12:00:00Z"
		}},
		{"tank", func(v map[string]any) {
			tank := v["arrival"].(map[string]any)["tanks"].([]any)[0].(map[string]any)
			tank["color"] = "black"
		}},
		{"product totals", func(v map[string]any) {
			totals := v["products_loaded_discharged"].(map[string]any)["VGO"].(map[string]any)
			totals["long_tons"] = 1456.0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validPayload(t)
			tt.mutate(v)

			_, err := Validate(marshal(t, v))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if len(ve.Violations) == 0 {
				t.Error("expected at least one violation")
			}
		})
	}
}

func TestValidate_RejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v map[string]any)
	}{
		{"barge name", func(v map[string]any) {
			delete(v["barge"].(map[string]any), "name")
		}},
		{"vessel name", func(v map[string]any) {
			delete(v["port"].(map[string]any), "vessel_name")
		}},
		{"tank id", func(v map[string]any) {
			tank := v["arrival"].(map[string]any)["tanks"].([]any)[0].(map[string]any)
			delete(tank, "tank_id")
		}},
		{"gross bbls", func(v map[string]any) {
			tank := v["departure"].(map[string]any)["tanks"].([]any)[0].(map[string]any)
			delete(tank, "gross_bbls")
		}},
		{"tanks", func(v map[string]any) {
			delete(v["arrival"].(map[string]any), "tanks")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validPayload(t)
			tt.mutate(v)

			var ve *ValidationError
			if _, err := Validate(marshal(t, v)); !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestValidate_RejectsWrongTypes(t *testing.T) {
	v := validPayload(t)
	tank := v["arrival"].(map[string]any)["tanks"].([]any)[0].(map[string]any)
	tank["gross_bbls"] = "5230.12"

	var ve *ValidationError
	if _, err := Validate(marshal(t, v)); !errors.As(err, &ve) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	v := validPayload(t)
	delete(v["barge"].(map[string]any), "name")
	v["port"].(map[string]any)["berth"] = "7A"
	tank := v["arrival"].(map[string]any)["tanks"].([]any)[0].(map[string]any)
	delete(tank, "tank_id")

	_, err := Validate(marshal(t, v))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}
	if len(ve.Violations) < 3 {
		t.Errorf("Violations = %d, want all three reported:\n%s",
			len(ve.Violations), strings.Join(ve.Violations, "\n"))
	}
}

func TestValidate_RejectsMalformedJSON(t *testing.T) {
	_, err := Validate([]byte("I could not read the document."))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}
	if !strings.Contains(ve.Error(), "not valid JSON") {
		t.Errorf("error should mention invalid JSON, got %q", ve.Error())
	}
}
