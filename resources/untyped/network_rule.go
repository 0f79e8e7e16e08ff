package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// NetworkRule wraps the vnet_rules table, the firewall and NAT rules
// attached to a virtual network.
type NetworkRule struct {
	*core.VergeResource
}

// ListForNetworkWithContext lists all rules on a virtual network.
func (r *NetworkRule) ListForNetworkWithContext(ctx context.Context, networkKey int64) (core.RecordSet, error) {
	params := core.Params{}
	core.NewFilter().Eq("vnet", networkKey).ApplyTo(params)
	return r.ListWithContext(ctx, params)
}

// ListForNetwork lists a network's rules using the bound REST context.
func (r *NetworkRule) ListForNetwork(networkKey int64) (core.RecordSet, error) {
	return r.ListForNetworkWithContext(r.Rest.GetCtx(), networkKey)
}
