package catalog

import (
	"encoding/json"
	"testing"
)

func TestSpecsKeepOrder(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`{
		"title": "VF105",
		"specs": {
			"processor": {"label": "Processor", "value": "ARM Cortex A7 MP2 1GHz"},
			"interfaces": {"label": "Interfaces", "value": ["GPIO", "RS485", "WiFi"]},
			"storage": {"label": "Storage", "value": "8GB"},
			"memory": {"label": "Memory", "value": null}
		}
	}`), &e)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	wantKeys := []string{"processor", "interfaces", "storage", "memory"}
	if len(e.Specs) != len(wantKeys) {
		t.Fatalf("len(Specs) = %d, want %d", len(e.Specs), len(wantKeys))
	}
	for i, k := range wantKeys {
		if e.Specs[i].Key != k {
			t.Errorf("Specs[%d].Key = %q, want %q", i, e.Specs[i].Key, k)
		}
	}
	if e.Specs[1].Value != "GPIO, RS485, WiFi" {
		t.Errorf("list value = %q", e.Specs[1].Value)
	}
	visible := e.Specs.Visible()
	if len(visible) != 3 {
		t.Errorf("Visible() = %d rows, want 3", len(visible))
	}
}

func TestSpecString(t *testing.T) {
	sp := Spec{Key: "ord", Label: "Type", Value: "Sensor"}
	if sp.String() != "Type: Sensor" {
		t.Errorf("String() = %q", sp.String())
	}
}

func TestSpecsRejectsArray(t *testing.T) {
	var s Specs
	if err := json.Unmarshal([]byte(`[1, 2]`), &s); err == nil {
		t.Fatal("expected error for array specs")
	}
}

func TestSpecsNull(t *testing.T) {
	s := Specs{{Key: "x"}}
	if err := json.Unmarshal([]byte(`null`), &s); err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Errorf("expected nil specs, got %v", s)
	}
}
