package untyped

import (
	"github.com/verge-io/go-verge-client/core"
)

// Group wraps the groups table.
type Group struct {
	*core.VergeResource
}
