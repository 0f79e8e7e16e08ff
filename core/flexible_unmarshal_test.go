package core

import (
	"testing"
)

func TestFlexibleUnmarshalNumberToString(t *testing.T) {
	type machine struct {
		Name  string `json:"name"`
		Ram   string `json:"ram"`
		Cores int64  `json:"cores"`
	}

	// VergeOS returns ram as a raw number on some endpoints
	jsonData := []byte(`{"name": "web1", "ram": 2048, "cores": 4}`)

	var result machine
	if err := FlexibleUnmarshal(jsonData, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "web1" {
		t.Errorf("expected Name 'web1', got %q", result.Name)
	}
	if result.Ram != "2048" {
		t.Errorf("expected Ram '2048', got %q", result.Ram)
	}
	if result.Cores != 4 {
		t.Errorf("expected Cores 4, got %d", result.Cores)
	}
}

func TestFlexibleUnmarshalNegativeAndBool(t *testing.T) {
	type row struct {
		Value   string `json:"value"`
		Enabled string `json:"enabled"`
	}

	jsonData := []byte(`{"value": -1, "enabled": true}`)

	var result row
	if err := FlexibleUnmarshal(jsonData, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Value != "-1" {
		t.Errorf("expected Value '-1', got %q", result.Value)
	}
	if result.Enabled != "true" {
		t.Errorf("expected Enabled 'true', got %q", result.Enabled)
	}
}

func TestFlexibleUnmarshalNestedStruct(t *testing.T) {
	type nested struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	type outer struct {
		Nested nested `json:"nested"`
		Count  int64  `json:"count"`
	}

	jsonData := []byte(`{"nested": {"name": "tier1", "value": 123}, "count": 456}`)

	var result outer
	if err := FlexibleUnmarshal(jsonData, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Nested.Name != "tier1" {
		t.Errorf("expected Nested.Name 'tier1', got %q", result.Nested.Name)
	}
	if result.Nested.Value != "123" {
		t.Errorf("expected Nested.Value '123', got %q", result.Nested.Value)
	}
	if result.Count != 456 {
		t.Errorf("expected Count 456, got %d", result.Count)
	}
}

func TestFlexibleUnmarshalSliceOfStrings(t *testing.T) {
	type row struct {
		Values []string `json:"values"`
		Counts []int64  `json:"counts"`
	}

	jsonData := []byte(`{"values": ["text", 123, true], "counts": [1, 2, 3]}`)

	var result row
	if err := FlexibleUnmarshal(jsonData, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"text", "123", "true"}
	for i, w := range want {
		if result.Values[i] != w {
			t.Errorf("Values[%d] = %q, want %q", i, result.Values[i], w)
		}
	}
	if len(result.Counts) != 3 || result.Counts[2] != 3 {
		t.Errorf("Counts = %v", result.Counts)
	}
}

func TestFlexibleUnmarshalMapValues(t *testing.T) {
	type row struct {
		Labels map[string]string `json:"labels"`
	}

	jsonData := []byte(`{"labels": {"tier": 2, "zone": "east"}}`)

	var result row
	if err := FlexibleUnmarshal(jsonData, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Labels["tier"] != "2" || result.Labels["zone"] != "east" {
		t.Errorf("Labels = %v", result.Labels)
	}
}

func TestFlexibleUnmarshalPointerFields(t *testing.T) {
	type row struct {
		Value *string `json:"value"`
	}

	jsonData := []byte(`{"value": 77}`)

	var result row
	if err := FlexibleUnmarshal(jsonData, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Value == nil || *result.Value != "77" {
		t.Errorf("Value = %v", result.Value)
	}
}

func TestFlexibleUnmarshalRejectsNonPointer(t *testing.T) {
	type row struct {
		Name string `json:"name"`
	}
	if err := FlexibleUnmarshal([]byte(`{}`), row{}); err == nil {
		t.Error("expected error for non-pointer container")
	}
}

func TestTrimFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2048, "2048"},
		{1.5, "1.5"},
		{-1, "-1"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := trimFloat(tt.in); got != tt.want {
			t.Errorf("trimFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
