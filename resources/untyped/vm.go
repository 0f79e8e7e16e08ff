package untyped

import (
	"context"
	"strings"

	"github.com/verge-io/go-verge-client/core"
)

// VM wraps the vms table. Power transitions go through the vms_actions
// companion table and are fire-and-acknowledge: the server queues the verb
// and drives the state machine itself.
type VM struct {
	*core.VergeResource
}

// Power state wire values for the vms table.
const (
	VMStateRunning   = "running"
	VMStateStopped   = "stopped"
	VMStateStarting  = "starting"
	VMStateStopping  = "stopping"
	VMStateMigrating = "migrating"
)

// Actions lists the verbs understood by the vms_actions table.
func (v *VM) Actions() []string {
	return []string{"poweron", "poweroff", "kill", "reset", "guestreset", "clone", "migrate", "restore"}
}

// PowerOnWithContext requests a power-on. When the VM is already running the
// call short-circuits locally and returns the current row without touching
// the network.
func (v *VM) PowerOnWithContext(ctx context.Context, ref core.ResourceReference) (core.Record, error) {
	return v.powerActionWithContext(ctx, ref, "poweron", VMStateRunning, VMStateStarting)
}

// PowerOn requests a power-on using the bound REST context.
func (v *VM) PowerOn(ref core.ResourceReference) (core.Record, error) {
	return v.PowerOnWithContext(v.Rest.GetCtx(), ref)
}

// PowerOffWithContext requests a guest-cooperative shutdown. Already-stopped
// VMs short-circuit locally.
func (v *VM) PowerOffWithContext(ctx context.Context, ref core.ResourceReference) (core.Record, error) {
	return v.powerActionWithContext(ctx, ref, "poweroff", VMStateStopped, VMStateStopping)
}

// PowerOff requests a guest-cooperative shutdown using the bound REST context.
func (v *VM) PowerOff(ref core.ResourceReference) (core.Record, error) {
	return v.PowerOffWithContext(v.Rest.GetCtx(), ref)
}

// KillWithContext hard-stops the VM without guest cooperation.
func (v *VM) KillWithContext(ctx context.Context, ref core.ResourceReference) (core.Record, error) {
	return v.powerActionWithContext(ctx, ref, "kill", VMStateStopped, VMStateStopping)
}

// Kill hard-stops the VM using the bound REST context.
func (v *VM) Kill(ref core.ResourceReference) (core.Record, error) {
	return v.KillWithContext(v.Rest.GetCtx(), ref)
}

// ResetWithContext power-cycles the VM (hard reset, no guest cooperation).
func (v *VM) ResetWithContext(ctx context.Context, ref core.ResourceReference) (core.Record, error) {
	record, err := core.ResolveOne(ctx, v, ref)
	if err != nil {
		return nil, err
	}
	return v.InvokeActionWithContext(ctx, "reset", record.RecordKey(), nil)
}

// Reset power-cycles the VM using the bound REST context.
func (v *VM) Reset(ref core.ResourceReference) (core.Record, error) {
	return v.ResetWithContext(v.Rest.GetCtx(), ref)
}

// GuestResetWithContext restarts the guest OS through the agent.
func (v *VM) GuestResetWithContext(ctx context.Context, ref core.ResourceReference) (core.Record, error) {
	record, err := core.ResolveOne(ctx, v, ref)
	if err != nil {
		return nil, err
	}
	return v.InvokeActionWithContext(ctx, "guestreset", record.RecordKey(), nil)
}

// GuestReset restarts the guest OS using the bound REST context.
func (v *VM) GuestReset(ref core.ResourceReference) (core.Record, error) {
	return v.GuestResetWithContext(v.Rest.GetCtx(), ref)
}

// powerActionWithContext resolves the VM, short-circuits when the row already
// reports targetState or transientState, and otherwise submits the verb.
func (v *VM) powerActionWithContext(ctx context.Context, ref core.ResourceReference, action, targetState, transientState string) (core.Record, error) {
	record, err := core.ResolveOne(ctx, v, ref)
	if err != nil {
		return nil, err
	}
	state := strings.ToLower(record.RecordStatus())
	if state == targetState || state == transientState {
		return record, nil
	}
	return v.InvokeActionWithContext(ctx, action, record.RecordKey(), nil)
}

// CloneWithContext clones the VM under a new name. The clone is created
// powered off; extra params (e.g. preserving MAC addresses) pass through.
func (v *VM) CloneWithContext(ctx context.Context, ref core.ResourceReference, cloneName string, params core.Params) (core.Record, error) {
	if cloneName == "" {
		return nil, &core.ValidationError{Field: "name", Message: "clone name cannot be empty"}
	}
	key, err := core.ResolveKey(ctx, v, ref)
	if err != nil {
		return nil, err
	}
	actionParams := core.Params{"name": cloneName}
	actionParams.Update(params, false)
	return v.InvokeActionWithContext(ctx, "clone", key, actionParams)
}

// Clone clones the VM using the bound REST context.
func (v *VM) Clone(ref core.ResourceReference, cloneName string, params core.Params) (core.Record, error) {
	return v.CloneWithContext(v.Rest.GetCtx(), ref, cloneName, params)
}

// MigrateWithContext live-migrates the VM to another node. An empty nodeRef
// lets the server pick a target.
func (v *VM) MigrateWithContext(ctx context.Context, ref core.ResourceReference, nodeName string) (core.Record, error) {
	key, err := core.ResolveKey(ctx, v, ref)
	if err != nil {
		return nil, err
	}
	var actionParams core.Params
	if nodeName != "" {
		actionParams = core.Params{"node": nodeName}
	}
	return v.InvokeActionWithContext(ctx, "migrate", key, actionParams)
}

// Migrate live-migrates the VM using the bound REST context.
func (v *VM) Migrate(ref core.ResourceReference, nodeName string) (core.Record, error) {
	return v.MigrateWithContext(v.Rest.GetCtx(), ref, nodeName)
}

// RestoreWithContext rolls the VM back to a named snapshot.
func (v *VM) RestoreWithContext(ctx context.Context, ref core.ResourceReference, snapshotName string) (core.Record, error) {
	if snapshotName == "" {
		return nil, &core.ValidationError{Field: "snapshot", Message: "snapshot name cannot be empty"}
	}
	key, err := core.ResolveKey(ctx, v, ref)
	if err != nil {
		return nil, err
	}
	return v.InvokeActionWithContext(ctx, "restore", key, core.Params{"snapshot": snapshotName})
}

// Restore rolls the VM back to a snapshot using the bound REST context.
func (v *VM) Restore(ref core.ResourceReference, snapshotName string) (core.Record, error) {
	return v.RestoreWithContext(v.Rest.GetCtx(), ref, snapshotName)
}

// RemoveWithContext deletes the VM. Running VMs are refused client-side
// unless force is set; with force the VM is killed first and the delete
// proceeds once the row leaves the running state.
func (v *VM) RemoveWithContext(ctx context.Context, ref core.ResourceReference, force bool) (core.EmptyRecord, error) {
	record, err := core.ResolveOne(ctx, v, ref)
	if err != nil {
		if core.IsNotFoundErr(err) {
			return core.EmptyRecord{}, nil
		}
		return nil, err
	}
	state := strings.ToLower(record.RecordStatus())
	if state == VMStateRunning || state == VMStateStarting {
		if !force {
			return nil, &core.ConflictError{
				Resource:      v.GetResourcePath(),
				Cause:         core.CausePowerState,
				ServerMessage: "VM must be powered off before it can be removed",
			}
		}
		if _, err = v.InvokeActionWithContext(ctx, "kill", record.RecordKey(), nil); err != nil {
			return nil, err
		}
		if _, err = core.WaitForState(ctx, v, record.RecordKey(), nil, VMStateStopped); err != nil {
			return nil, err
		}
	}
	return v.DeleteByKeyWithContext(ctx, record.RecordKey(), nil, nil)
}

// Remove deletes the VM using the bound REST context.
func (v *VM) Remove(ref core.ResourceReference, force bool) (core.EmptyRecord, error) {
	return v.RemoveWithContext(v.Rest.GetCtx(), ref, force)
}

// WaitForStateWithContext blocks until the VM reaches one of the wanted
// power states or the wait times out.
func (v *VM) WaitForStateWithContext(ctx context.Context, ref core.ResourceReference, waitConfig *core.WaitConfig, states ...string) (core.Record, error) {
	key, err := core.ResolveKey(ctx, v, ref)
	if err != nil {
		return nil, err
	}
	return core.WaitForState(ctx, v, key, waitConfig, states...)
}

// WaitForState blocks until the VM reaches one of the wanted power states
// using the bound REST context.
func (v *VM) WaitForState(ref core.ResourceReference, waitConfig *core.WaitConfig, states ...string) (core.Record, error) {
	return v.WaitForStateWithContext(v.Rest.GetCtx(), ref, waitConfig, states...)
}

// MachineKeyWithContext returns the key of the VM's underlying compute
// object, which scopes drive/NIC/snapshot queries.
func (v *VM) MachineKeyWithContext(ctx context.Context, ref core.ResourceReference) (int64, error) {
	record, err := core.ResolveOne(ctx, v, ref)
	if err != nil {
		return 0, err
	}
	machineVal, ok := record["machine"]
	if !ok || machineVal == nil {
		return 0, &core.NotFoundError{Resource: "machines", Query: "machine reference on vm row"}
	}
	return core.ToInt(machineVal)
}

// MachineKey returns the key of the VM's underlying compute object using the
// bound REST context.
func (v *VM) MachineKey(ref core.ResourceReference) (int64, error) {
	return v.MachineKeyWithContext(v.Rest.GetCtx(), ref)
}
