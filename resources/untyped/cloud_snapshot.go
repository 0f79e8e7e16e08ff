package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// CloudSnapshot wraps the cloud_snapshots table, the system-wide snapshots
// taken across all tenants and VMs at once. Update is not supported; a cloud
// snapshot is immutable once taken.
type CloudSnapshot struct {
	*core.VergeResource
}

// Actions lists the verbs understood by the cloud_snapshots_actions table.
func (c *CloudSnapshot) Actions() []string {
	return []string{"restore"}
}

// RestoreWithContext restores system state from the cloud snapshot. The
// params select what to bring back (specific VMs, tenants, or everything).
func (c *CloudSnapshot) RestoreWithContext(ctx context.Context, ref core.ResourceReference, params core.Params) (core.Record, error) {
	key, err := core.ResolveKey(ctx, c, ref)
	if err != nil {
		return nil, err
	}
	return c.InvokeActionWithContext(ctx, "restore", key, params)
}

// Restore restores from the cloud snapshot using the bound REST context.
func (c *CloudSnapshot) Restore(ref core.ResourceReference, params core.Params) (core.Record, error) {
	return c.RestoreWithContext(c.Rest.GetCtx(), ref, params)
}
