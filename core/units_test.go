package core

import (
	"testing"
	"time"
)

func TestGbBytesRoundTrip(t *testing.T) {
	tests := []struct {
		gb    int64
		bytes int64
	}{
		{1, 1073741824},
		{4, 4294967296},
		{100, 107374182400},
		{0, 0},
	}

	for _, tt := range tests {
		if got := GbToBytes(tt.gb); got != tt.bytes {
			t.Errorf("GbToBytes(%d) = %d, want %d", tt.gb, got, tt.bytes)
		}
		if got := BytesToGb(tt.bytes); got != tt.gb {
			t.Errorf("BytesToGb(%d) = %d, want %d", tt.bytes, got, tt.gb)
		}
	}

	// Truncation, not rounding
	if got := BytesToGb(GbToBytes(1) + 512); got != 1 {
		t.Errorf("BytesToGb should truncate, got %d", got)
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1073741824, "1.0 GiB"},
		{5 * 1099511627776, "5.0 TiB"},
	}

	for _, tt := range tests {
		if got := HumanSize(tt.bytes); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestEpochToTime(t *testing.T) {
	if got := EpochToTime(0); got != nil {
		t.Errorf("EpochToTime(0) = %v, want nil", got)
	}

	epoch := int64(1700000000)
	got := EpochToTime(epoch)
	if got == nil {
		t.Fatal("EpochToTime returned nil for non-zero epoch")
	}
	if want := time.Unix(epoch, 0).UTC(); !got.Equal(want) {
		t.Errorf("EpochToTime(%d) = %v, want %v", epoch, got, want)
	}
}

func TestFormatEpoch(t *testing.T) {
	if got := FormatEpoch(0); got != "never" {
		t.Errorf("FormatEpoch(0) = %q, want %q", got, "never")
	}
	if got := FormatEpoch(1700000000); got != "2023-11-14T22:13:20Z" {
		t.Errorf("FormatEpoch(1700000000) = %q", got)
	}
}

func TestParseCIDR(t *testing.T) {
	tests := []struct {
		cidr      string
		network   string
		prefix    int
		addresses int64
		wantErr   bool
	}{
		{"192.168.1.0/24", "192.168.1.0/24", 24, 256, false},
		{"10.0.0.0/8", "10.0.0.0/8", 8, 16777216, false},
		{"172.16.0.0/30", "172.16.0.0/30", 30, 4, false},
		{"192.168.1.42/24", "192.168.1.0/24", 24, 256, false}, // host bits masked off
		{"not-a-cidr", "", 0, 0, true},
		{"2001:db8::/64", "", 0, 0, true}, // IPv6 rejected
	}

	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			info, err := ParseCIDR(tt.cidr)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCIDR(%q) expected error", tt.cidr)
				}
				if !IsValidationErr(err) {
					t.Errorf("ParseCIDR(%q) error type = %T, want ValidationError", tt.cidr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCIDR(%q) unexpected error: %v", tt.cidr, err)
			}
			if info.Network != tt.network || info.PrefixLength != tt.prefix || info.AddressCount != tt.addresses {
				t.Errorf("ParseCIDR(%q) = %+v", tt.cidr, info)
			}
		})
	}
}

func TestValidateMAC(t *testing.T) {
	valid := []string{"00:11:22:33:44:55", "AA:BB:CC:DD:EE:FF", "aa:bb:cc:dd:ee:ff"}
	for _, mac := range valid {
		if err := ValidateMAC(mac); err != nil {
			t.Errorf("ValidateMAC(%q) unexpected error: %v", mac, err)
		}
	}
	invalid := []string{"", "00-11-22-33-44-55", "00:11:22:33:44", "gg:11:22:33:44:55"}
	for _, mac := range invalid {
		if err := ValidateMAC(mac); err == nil {
			t.Errorf("ValidateMAC(%q) expected error", mac)
		}
	}
}

func TestValidateIP(t *testing.T) {
	if err := ValidateIP("192.168.1.1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateIP("2001:db8::1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateIP("999.1.1.1"); err == nil {
		t.Error("expected error for out-of-range octet")
	}
}

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"running", "Running"},
		{"RUNNING", "Running"},
		{"nodesoffline", "Error (Nodes Offline)"},
		{"", "Unknown"},
		{"  ", "Unknown"},
		{"somefuturestate", "Somefuturestate"},
	}

	for _, tt := range tests {
		if got := DisplayStatus(tt.status); got != tt.want {
			t.Errorf("DisplayStatus(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
