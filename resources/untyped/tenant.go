package untyped

import (
	"context"
	"strings"

	"github.com/verge-io/go-verge-client/core"
)

// Tenant wraps the tenants table. A tenant is a nested VergeOS instance with
// its own UI, storage allocation, and node set; power verbs and file pushes
// go through the tenants_actions companion table.
type Tenant struct {
	*core.VergeResource
}

// Actions lists the verbs understood by the tenants_actions table.
func (t *Tenant) Actions() []string {
	return []string{"poweron", "poweroff", "give_file"}
}

// PowerOnWithContext starts the tenant's nodes. Already-running tenants
// short-circuit locally without a network call.
func (t *Tenant) PowerOnWithContext(ctx context.Context, ref core.ResourceReference) (core.Record, error) {
	return t.powerActionWithContext(ctx, ref, "poweron", VMStateRunning, VMStateStarting)
}

// PowerOn starts the tenant using the bound REST context.
func (t *Tenant) PowerOn(ref core.ResourceReference) (core.Record, error) {
	return t.PowerOnWithContext(t.Rest.GetCtx(), ref)
}

// PowerOffWithContext stops the tenant's nodes. Already-stopped tenants
// short-circuit locally.
func (t *Tenant) PowerOffWithContext(ctx context.Context, ref core.ResourceReference) (core.Record, error) {
	return t.powerActionWithContext(ctx, ref, "poweroff", VMStateStopped, VMStateStopping)
}

// PowerOff stops the tenant using the bound REST context.
func (t *Tenant) PowerOff(ref core.ResourceReference) (core.Record, error) {
	return t.PowerOffWithContext(t.Rest.GetCtx(), ref)
}

func (t *Tenant) powerActionWithContext(ctx context.Context, ref core.ResourceReference, action, targetState, transientState string) (core.Record, error) {
	record, err := core.ResolveOne(ctx, t, ref)
	if err != nil {
		return nil, err
	}
	state := strings.ToLower(record.RecordStatus())
	if state == targetState || state == transientState {
		return record, nil
	}
	return t.InvokeActionWithContext(ctx, action, record.RecordKey(), nil)
}

// GiveFileWithContext pushes a shared media image or file into the tenant by
// its shared_objects key.
func (t *Tenant) GiveFileWithContext(ctx context.Context, ref core.ResourceReference, fileKey int64) (core.Record, error) {
	key, err := core.ResolveKey(ctx, t, ref)
	if err != nil {
		return nil, err
	}
	return t.InvokeActionWithContext(ctx, "give_file", key, core.Params{"file": fileKey})
}

// GiveFile pushes a file into the tenant using the bound REST context.
func (t *Tenant) GiveFile(ref core.ResourceReference, fileKey int64) (core.Record, error) {
	return t.GiveFileWithContext(t.Rest.GetCtx(), ref, fileKey)
}
