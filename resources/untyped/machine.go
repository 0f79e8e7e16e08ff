package untyped

import (
	"github.com/verge-io/go-verge-client/core"
)

// Machine wraps the machines table, the compute object backing every VM and
// tenant node. Machines are created by the system when their owner is
// created; the table is read and update only.
type Machine struct {
	*core.VergeResource
}
