package untyped

import (
	"github.com/verge-io/go-verge-client/core"
)

// Site wraps the sites table, the remote systems paired for sync and DR.
// The table only exists on recent systems, so calls are version gated.
type Site struct {
	*core.VergeResource
}
