package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// TenantStorage wraps the tenant_storage table, the per-tier storage
// allocations handed to a tenant. Provisioned sizes travel as bytes.
type TenantStorage struct {
	*core.VergeResource
}

// AllocateWithContext grants a tenant provisioned GB on a storage tier.
func (t *TenantStorage) AllocateWithContext(ctx context.Context, tenantKey int64, tier int, sizeGB int64) (core.Record, error) {
	return t.CreateWithContext(ctx, core.Params{
		"tenant":      tenantKey,
		"tier":        tier,
		"provisioned": core.GbToBytes(sizeGB),
	})
}

// Allocate grants tenant storage using the bound REST context.
func (t *TenantStorage) Allocate(tenantKey int64, tier int, sizeGB int64) (core.Record, error) {
	return t.AllocateWithContext(t.Rest.GetCtx(), tenantKey, tier, sizeGB)
}

// ListForTenantWithContext lists a tenant's storage allocations.
func (t *TenantStorage) ListForTenantWithContext(ctx context.Context, tenantKey int64) (core.RecordSet, error) {
	params := core.Params{}
	core.NewFilter().Eq("tenant", tenantKey).ApplyTo(params)
	return t.ListWithContext(ctx, params)
}

// ListForTenant lists a tenant's storage allocations using the bound REST
// context.
func (t *TenantStorage) ListForTenant(tenantKey int64) (core.RecordSet, error) {
	return t.ListForTenantWithContext(t.Rest.GetCtx(), tenantKey)
}
