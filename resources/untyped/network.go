package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// Network wraps the vnets table. Internal networks carry an IPv4 network in
// CIDR form; isolation verbs go through the vnets_actions companion table.
type Network struct {
	*core.VergeResource
}

// Actions lists the verbs understood by the vnets_actions table.
func (n *Network) Actions() []string {
	return []string{"poweron", "poweroff", "isolateon", "isolateoff"}
}

// CreateInternalWithContext creates an internal network with the given CIDR.
// The CIDR is parsed client-side so a malformed value fails before the
// request is sent.
func (n *Network) CreateInternalWithContext(ctx context.Context, name, cidr string, params core.Params) (core.Record, error) {
	info, err := core.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	body := core.Params{
		"name":    name,
		"type":    "internal",
		"network": info.Network,
	}
	body.Update(params, false)
	return n.CreateWithContext(ctx, body)
}

// CreateInternal creates an internal network using the bound REST context.
func (n *Network) CreateInternal(name, cidr string, params core.Params) (core.Record, error) {
	return n.CreateInternalWithContext(n.Rest.GetCtx(), name, cidr, params)
}

// SetIsolationWithContext toggles network isolation. Isolated networks drop
// all traffic to and from other networks while staying up internally.
func (n *Network) SetIsolationWithContext(ctx context.Context, ref core.ResourceReference, isolate bool) (core.Record, error) {
	key, err := core.ResolveKey(ctx, n, ref)
	if err != nil {
		return nil, err
	}
	action := "isolateoff"
	if isolate {
		action = "isolateon"
	}
	return n.InvokeActionWithContext(ctx, action, key, nil)
}

// SetIsolation toggles network isolation using the bound REST context.
func (n *Network) SetIsolation(ref core.ResourceReference, isolate bool) (core.Record, error) {
	return n.SetIsolationWithContext(n.Rest.GetCtx(), ref, isolate)
}

// AddressCountWithContext returns the total address count of the network's
// CIDR block.
func (n *Network) AddressCountWithContext(ctx context.Context, ref core.ResourceReference) (int64, error) {
	record, err := core.ResolveOne(ctx, n, ref)
	if err != nil {
		return 0, err
	}
	cidr, _ := record["network"].(string)
	info, err := core.ParseCIDR(cidr)
	if err != nil {
		return 0, err
	}
	return info.AddressCount, nil
}

// AddressCount returns the network's address count using the bound REST
// context.
func (n *Network) AddressCount(ref core.ResourceReference) (int64, error) {
	return n.AddressCountWithContext(n.Rest.GetCtx(), ref)
}
