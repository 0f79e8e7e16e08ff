package untyped

import (
	"github.com/verge-io/go-verge-client/core"
)

// Cluster wraps the clusters table.
type Cluster struct {
	*core.VergeResource
}
