package core

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"
)

// The API reports sizes in bytes and expects bytes back; users think in
// binary gigabytes (2^30).
const bytesPerGB int64 = 1 << 30

// GbToBytes converts binary gigabytes to bytes.
func GbToBytes(gb int64) int64 {
	return gb * bytesPerGB
}

// BytesToGb converts bytes to whole binary gigabytes, truncating.
func BytesToGb(bytes int64) int64 {
	return bytes / bytesPerGB
}

// HumanSize renders a byte count with a binary unit suffix, one decimal.
func HumanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// EpochToTime converts an epoch-seconds timestamp to a *time.Time.
// Zero means "never" on the wire and maps to nil.
func EpochToTime(epoch int64) *time.Time {
	if epoch == 0 {
		return nil
	}
	t := time.Unix(epoch, 0).UTC()
	return &t
}

// FormatEpoch renders an epoch-seconds timestamp for display; zero renders
// as "never".
func FormatEpoch(epoch int64) string {
	t := EpochToTime(epoch)
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}

// CIDRInfo describes a parsed CIDR network.
type CIDRInfo struct {
	Network      string
	PrefixLength int
	AddressCount int64
}

// ParseCIDR parses an IPv4 CIDR string and reports its total address count
// (2^(32-prefix), network and broadcast included).
func ParseCIDR(cidr string) (*CIDRInfo, error) {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, &ValidationError{Field: "cidr", Message: fmt.Sprintf("invalid CIDR %q: %v", cidr, err)}
	}
	ones, bits := ipNet.Mask.Size()
	if bits != 32 {
		return nil, &ValidationError{Field: "cidr", Message: fmt.Sprintf("%q is not an IPv4 network", cidr)}
	}
	return &CIDRInfo{
		Network:      ipNet.String(),
		PrefixLength: ones,
		AddressCount: int64(1) << (32 - ones),
	}, nil
}

var macRe = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

// ValidateMAC checks a colon-separated MAC address.
func ValidateMAC(mac string) error {
	if !macRe.MatchString(mac) {
		return &ValidationError{Field: "mac", Message: fmt.Sprintf("invalid MAC address %q", mac)}
	}
	return nil
}

// ValidateIP checks an IPv4 or IPv6 address literal.
func ValidateIP(ip string) error {
	if net.ParseIP(ip) == nil {
		return &ValidationError{Field: "ip", Message: fmt.Sprintf("invalid IP address %q", ip)}
	}
	return nil
}

// statusDisplay maps wire status strings to the labels shown in the UI.
// Unknown statuses pass through title-cased.
var statusDisplay = map[string]string{
	"running":      "Running",
	"stopped":      "Stopped",
	"offline":      "Offline",
	"online":       "Online",
	"initializing": "Initializing",
	"provisioning": "Provisioning",
	"migrating":    "Migrating",
	"error":        "Error",
	"warning":      "Warning",
	"nodesoffline": "Error (Nodes Offline)",
	"verifying":    "Verifying",
	"repairing":    "Repairing",
}

// DisplayStatus converts a wire status value into its display label.
func DisplayStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return "Unknown"
	}
	if label, ok := statusDisplay[s]; ok {
		return label
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
