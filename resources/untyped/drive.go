package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// Drive wraps the machine_drives table. Drives hang off a machine, so list
// queries are usually scoped by the machine column.
type Drive struct {
	*core.VergeResource
}

// ListForMachineWithContext lists all drives attached to a machine.
func (d *Drive) ListForMachineWithContext(ctx context.Context, machineKey int64) (core.RecordSet, error) {
	params := core.Params{}
	core.NewFilter().Eq("machine", machineKey).ApplyTo(params)
	return d.ListWithContext(ctx, params)
}

// ListForMachine lists a machine's drives using the bound REST context.
func (d *Drive) ListForMachine(machineKey int64) (core.RecordSet, error) {
	return d.ListForMachineWithContext(d.Rest.GetCtx(), machineKey)
}

// AttachWithContext creates a drive on a machine. Size is given in GB and
// converted to the byte count the wire expects.
func (d *Drive) AttachWithContext(ctx context.Context, machineKey int64, name string, sizeGB int64, params core.Params) (core.Record, error) {
	body := core.Params{
		"machine":  machineKey,
		"name":     name,
		"disksize": core.GbToBytes(sizeGB),
	}
	body.Update(params, false)
	return d.CreateWithContext(ctx, body)
}

// Attach creates a drive on a machine using the bound REST context.
func (d *Drive) Attach(machineKey int64, name string, sizeGB int64, params core.Params) (core.Record, error) {
	return d.AttachWithContext(d.Rest.GetCtx(), machineKey, name, sizeGB, params)
}

// ResizeWithContext grows a drive to the given size in GB. Shrinking is
// refused client-side since the server silently corrupts smaller disks.
func (d *Drive) ResizeWithContext(ctx context.Context, key int64, sizeGB int64) (core.Record, error) {
	record, err := d.GetByKeyWithContext(ctx, key)
	if err != nil {
		return nil, err
	}
	newSize := core.GbToBytes(sizeGB)
	if current, ok := record["disksize"]; ok {
		if currentBytes, err := core.ToInt(current); err == nil && currentBytes > newSize {
			return nil, &core.ValidationError{
				Field:   "disksize",
				Message: "drives cannot be shrunk",
			}
		}
	}
	return d.UpdateWithContext(ctx, key, core.Params{"disksize": newSize})
}

// Resize grows a drive using the bound REST context.
func (d *Drive) Resize(key int64, sizeGB int64) (core.Record, error) {
	return d.ResizeWithContext(d.Rest.GetCtx(), key, sizeGB)
}
