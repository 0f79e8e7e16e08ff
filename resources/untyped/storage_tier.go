package untyped

import (
	"github.com/verge-io/go-verge-client/core"
)

// StorageTier wraps the storage_tiers table. Tiers are numbered 0..5 and
// created by the system; only descriptions and thresholds are writable.
type StorageTier struct {
	*core.VergeResource
}
