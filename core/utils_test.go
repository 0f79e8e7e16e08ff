package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"int", 7, 7, false},
		{"int64", int64(7), 7, false},
		{"uint32", uint32(9), 9, false},
		{"float64 from JSON", float64(42), 42, false},
		{"float64 truncates", float64(42.9), 42, false},
		{"decimal string", "15", 15, false},
		{"padded string", " 15 ", 15, false},
		{"non-numeric string", "abc", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToInt(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ToInt(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertMapToQuery(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"empty", Params{}, ""},
		{"single", Params{"fields": "all"}, "fields=all"},
		{"sorted keys", Params{"limit": 5, "filter": "name eq 'x'"}, "filter=name+eq+%27x%27&limit=5"},
		{"bool value", Params{"force": true}, "force=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertMapToQuery(tt.params); got != tt.want {
				t.Errorf("convertMapToQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"vms", "vms"},
		{"/vms/", "vms"},
		{"  /sys/tokens  ", "sys/tokens"},
		{"//vnets", "vnets"},
	}
	for _, tt := range tests {
		if got := sanitizeEndpoint(tt.in); got != tt.want {
			t.Errorf("sanitizeEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildResourcePathWithKey(t *testing.T) {
	if got := buildResourcePathWithKey("vms", 3); got != "vms/3" {
		t.Errorf("got %q", got)
	}
	if got := buildResourcePathWithKey("/machine_drives/", int64(12)); got != "machine_drives/12" {
		t.Errorf("got %q", got)
	}
}

func TestParseJSONTag(t *testing.T) {
	type sample struct {
		Plain     string
		Tagged    string `json:"tagged"`
		OmitEmpty string `json:"oe,omitempty"`
		OnlyComma string `json:",omitempty"`
	}
	typ := reflect.TypeOf(sample{})

	tests := []struct {
		field string
		want  string
	}{
		{"Plain", "Plain"},
		{"Tagged", "tagged"},
		{"OmitEmpty", "oe"},
		{"OnlyComma", "OnlyComma"},
	}
	for _, tt := range tests {
		field, ok := typ.FieldByName(tt.field)
		if !ok {
			t.Fatalf("field %s not found", tt.field)
		}
		if got := parseJSONTag(field); got != tt.want {
			t.Errorf("parseJSONTag(%s) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestStructToMapSkipsZeroValues(t *testing.T) {
	type body struct {
		Name    string `json:"name,omitempty"`
		Ram     int64  `json:"ram,omitempty"`
		Enabled bool   `json:"enabled,omitempty"`
		Tags    []string
	}

	m := structToMap(&body{Name: "web1"})
	if m["name"] != "web1" {
		t.Errorf("name = %v", m["name"])
	}
	for _, key := range []string{"ram", "enabled", "Tags"} {
		if _, ok := m[key]; ok {
			t.Errorf("zero field %q should be skipped", key)
		}
	}
}

func TestStructToMapEmbedded(t *testing.T) {
	type base struct {
		Name string `json:"name"`
	}
	type derived struct {
		base
		Ram int64 `json:"ram"`
	}

	m := structToMap(derived{base: base{Name: "a"}, Ram: 2})
	if m["name"] != "a" || m["ram"] != int64(2) {
		t.Errorf("embedded fields not flattened: %v", m)
	}

	type Base struct {
		Cluster int64 `json:"cluster"`
	}
	type viaPointer struct {
		*Base
		Name string `json:"name"`
	}

	m = structToMap(viaPointer{Base: &Base{Cluster: 3}, Name: "b"})
	if m["cluster"] != int64(3) || m["name"] != "b" {
		t.Errorf("pointer-embedded fields not flattened: %v", m)
	}

	m = structToMap(viaPointer{Name: "c"})
	if _, ok := m["cluster"]; ok {
		t.Errorf("nil embedded pointer should contribute nothing: %v", m)
	}
	if m["name"] != "c" {
		t.Errorf("m = %v", m)
	}
}

func TestMust(t *testing.T) {
	if got := Must(5, nil); got != 5 {
		t.Errorf("Must = %d", got)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}
