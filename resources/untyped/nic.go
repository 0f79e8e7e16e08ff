package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// Nic wraps the machine_nics table.
type Nic struct {
	*core.VergeResource
}

// ListForMachineWithContext lists all NICs attached to a machine.
func (n *Nic) ListForMachineWithContext(ctx context.Context, machineKey int64) (core.RecordSet, error) {
	params := core.Params{}
	core.NewFilter().Eq("machine", machineKey).ApplyTo(params)
	return n.ListWithContext(ctx, params)
}

// ListForMachine lists a machine's NICs using the bound REST context.
func (n *Nic) ListForMachine(machineKey int64) (core.RecordSet, error) {
	return n.ListForMachineWithContext(n.Rest.GetCtx(), machineKey)
}

// AttachWithContext creates a NIC on a machine bound to a virtual network.
// A non-empty mac is validated before the request is sent.
func (n *Nic) AttachWithContext(ctx context.Context, machineKey, networkKey int64, mac string, params core.Params) (core.Record, error) {
	body := core.Params{
		"machine": machineKey,
		"vnet":    networkKey,
	}
	if mac != "" {
		if err := core.ValidateMAC(mac); err != nil {
			return nil, err
		}
		body["macaddress"] = mac
	}
	body.Update(params, false)
	return n.CreateWithContext(ctx, body)
}

// Attach creates a NIC on a machine using the bound REST context.
func (n *Nic) Attach(machineKey, networkKey int64, mac string, params core.Params) (core.Record, error) {
	return n.AttachWithContext(n.Rest.GetCtx(), machineKey, networkKey, mac, params)
}
