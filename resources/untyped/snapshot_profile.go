package untyped

import (
	"github.com/verge-io/go-verge-client/core"
)

// SnapshotProfile wraps the snapshot_profiles table, the retention schedules
// that periodic snapshots are taken under.
type SnapshotProfile struct {
	*core.VergeResource
}
