package untyped

import (
	"github.com/verge-io/go-verge-client/core"
)

// TenantNetwork wraps the tenant_networks table, the external network
// bindings handed to a tenant.
type TenantNetwork struct {
	*core.VergeResource
}
