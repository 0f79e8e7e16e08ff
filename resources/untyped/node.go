package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// Node wraps the nodes table. Nodes are physical hosts; the table is read
// and update only, membership changes happen through the installer.
type Node struct {
	*core.VergeResource
}

// SetMaintenanceWithContext toggles a node's maintenance flag. Entering
// maintenance drains running workloads to other nodes.
func (n *Node) SetMaintenanceWithContext(ctx context.Context, ref core.ResourceReference, maintenance bool) (core.Record, error) {
	key, err := core.ResolveKey(ctx, n, ref)
	if err != nil {
		return nil, err
	}
	return n.UpdateWithContext(ctx, key, core.Params{"maintenance": maintenance})
}

// SetMaintenance toggles maintenance using the bound REST context.
func (n *Node) SetMaintenance(ref core.ResourceReference, maintenance bool) (core.Record, error) {
	return n.SetMaintenanceWithContext(n.Rest.GetCtx(), ref, maintenance)
}
