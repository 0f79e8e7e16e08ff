package typed

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// -----------------------------------------------------
// SEARCH PARAMS
// -----------------------------------------------------

// VMSearchParams represents the search parameters for VM operations
// against the vms table.
type VMSearchParams struct {
	Name          string `json:"name,omitempty" yaml:"name,omitempty" required:"false" doc:"Filter by VM name."`
	Status        string `json:"status,omitempty" yaml:"status,omitempty" required:"false" doc:"Filter by power state (running, stopped, ...)."`
	Cluster       int64  `json:"cluster,omitempty" yaml:"cluster,omitempty" required:"false" doc:"Filter by owning cluster key."`
	PreferredNode int64  `json:"preferred_node,omitempty" yaml:"preferred_node,omitempty" required:"false" doc:"Filter by preferred node key."`
	Enabled       bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" required:"false" doc:"Filter by enabled flag."`

	RawData core.Params `json:"-" yaml:"-"`
}

// -----------------------------------------------------
// REQUEST BODY
// -----------------------------------------------------

// VMRequestBody represents the request body for VM create and update
// operations. RAM is in MB; zero fields are omitted so updates stay partial.
type VMRequestBody struct {
	Name            string `json:"name,omitempty" yaml:"name,omitempty" required:"true" doc:"VM name."`
	Description     string `json:"description,omitempty" yaml:"description,omitempty" required:"false" doc:"Free-form description."`
	Enabled         bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" required:"false" doc:"Whether the VM may be powered on."`
	CpuCores        int64  `json:"cpu_cores,omitempty" yaml:"cpu_cores,omitempty" required:"false" doc:"Number of virtual CPU cores."`
	Ram             int64  `json:"ram,omitempty" yaml:"ram,omitempty" required:"false" doc:"RAM in MB."`
	Cluster         int64  `json:"cluster,omitempty" yaml:"cluster,omitempty" required:"false" doc:"Owning cluster key."`
	PreferredNode   int64  `json:"preferred_node,omitempty" yaml:"preferred_node,omitempty" required:"false" doc:"Node the VM prefers to run on."`
	OsFamily        string `json:"os_family,omitempty" yaml:"os_family,omitempty" required:"false" doc:"Guest OS family (linux, windows, ...)."`
	MachineType     string `json:"machine_type,omitempty" yaml:"machine_type,omitempty" required:"false" doc:"Emulated machine type."`
	Uefi            bool   `json:"uefi,omitempty" yaml:"uefi,omitempty" required:"false" doc:"Boot with UEFI firmware instead of BIOS."`
	SecureBoot      bool   `json:"secure_boot,omitempty" yaml:"secure_boot,omitempty" required:"false" doc:"Enable secure boot (UEFI only)."`
	Console         string `json:"console,omitempty" yaml:"console,omitempty" required:"false" doc:"Console type (vnc, spice)."`
	Video           string `json:"video,omitempty" yaml:"video,omitempty" required:"false" doc:"Emulated video adapter."`
	SnapshotProfile int64  `json:"snapshot_profile,omitempty" yaml:"snapshot_profile,omitempty" required:"false" doc:"Snapshot profile key for periodic snapshots."`
	UsbTablet       bool   `json:"usb_tablet,omitempty" yaml:"usb_tablet,omitempty" required:"false" doc:"Attach a USB tablet pointer device."`
	HaGroup         string `json:"ha_group,omitempty" yaml:"ha_group,omitempty" required:"false" doc:"HA group tag for anti-affinity."`
}

// -----------------------------------------------------
// RESPONSE BODY
// -----------------------------------------------------

// VMResponseBody represents the response data for VM operations.
type VMResponseBody struct {
	Key             int64  `json:"$key,omitempty" yaml:"key,omitempty" required:"false" doc:"Primary key."`
	Name            string `json:"name,omitempty" yaml:"name,omitempty" required:"false" doc:"VM name."`
	Description     string `json:"description,omitempty" yaml:"description,omitempty" required:"false" doc:"Free-form description."`
	Enabled         bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" required:"false" doc:"Whether the VM may be powered on."`
	Status          string `json:"status,omitempty" yaml:"status,omitempty" required:"false" doc:"Power state."`
	CpuCores        int64  `json:"cpu_cores,omitempty" yaml:"cpu_cores,omitempty" required:"false" doc:"Number of virtual CPU cores."`
	Ram             int64  `json:"ram,omitempty" yaml:"ram,omitempty" required:"false" doc:"RAM in MB."`
	Machine         int64  `json:"machine,omitempty" yaml:"machine,omitempty" required:"false" doc:"Backing machine key."`
	Cluster         int64  `json:"cluster,omitempty" yaml:"cluster,omitempty" required:"false" doc:"Owning cluster key."`
	Node            int64  `json:"node,omitempty" yaml:"node,omitempty" required:"false" doc:"Node currently hosting the VM."`
	PreferredNode   int64  `json:"preferred_node,omitempty" yaml:"preferred_node,omitempty" required:"false" doc:"Node the VM prefers to run on."`
	OsFamily        string `json:"os_family,omitempty" yaml:"os_family,omitempty" required:"false" doc:"Guest OS family."`
	MachineType     string `json:"machine_type,omitempty" yaml:"machine_type,omitempty" required:"false" doc:"Emulated machine type."`
	Uefi            bool   `json:"uefi,omitempty" yaml:"uefi,omitempty" required:"false" doc:"Boots with UEFI firmware."`
	SecureBoot      bool   `json:"secure_boot,omitempty" yaml:"secure_boot,omitempty" required:"false" doc:"Secure boot enabled."`
	Console         string `json:"console,omitempty" yaml:"console,omitempty" required:"false" doc:"Console type."`
	Video           string `json:"video,omitempty" yaml:"video,omitempty" required:"false" doc:"Emulated video adapter."`
	SnapshotProfile int64  `json:"snapshot_profile,omitempty" yaml:"snapshot_profile,omitempty" required:"false" doc:"Snapshot profile key."`
	Created         int64  `json:"created,omitempty" yaml:"created,omitempty" required:"false" doc:"Creation time, unix epoch."`
	Modified        int64  `json:"modified,omitempty" yaml:"modified,omitempty" required:"false" doc:"Last modification time, unix epoch."`
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// VM provides typed access to the vms table.
type VM struct {
	*core.TypedVergeResource
}

// Get retrieves a single VM matching the search parameters.
func (r *VM) Get(req *VMSearchParams) (*VMResponseBody, error) {
	return r.GetWithContext(r.Untyped.GetCtx(), req)
}

// GetWithContext retrieves a single VM matching the search parameters using
// the provided context.
func (r *VM) GetWithContext(ctx context.Context, req *VMSearchParams) (*VMResponseBody, error) {
	return core.TypedGet[VMResponseBody](ctx, r.TypedVergeResource, req)
}

// GetByKey retrieves a single VM by primary key.
func (r *VM) GetByKey(key any) (*VMResponseBody, error) {
	return r.GetByKeyWithContext(r.Untyped.GetCtx(), key)
}

// GetByKeyWithContext retrieves a single VM by primary key using the
// provided context.
func (r *VM) GetByKeyWithContext(ctx context.Context, key any) (*VMResponseBody, error) {
	return core.TypedGetByKey[VMResponseBody](ctx, r.TypedVergeResource, key)
}

// List retrieves all VMs matching the search parameters.
func (r *VM) List(req *VMSearchParams) ([]*VMResponseBody, error) {
	return r.ListWithContext(r.Untyped.GetCtx(), req)
}

// ListWithContext retrieves all VMs matching the search parameters using the
// provided context.
func (r *VM) ListWithContext(ctx context.Context, req *VMSearchParams) ([]*VMResponseBody, error) {
	return core.TypedList[VMResponseBody](ctx, r.TypedVergeResource, req)
}

// Create creates a new VM.
func (r *VM) Create(req *VMRequestBody) (*VMResponseBody, error) {
	return r.CreateWithContext(r.Untyped.GetCtx(), req)
}

// CreateWithContext creates a new VM using the provided context.
func (r *VM) CreateWithContext(ctx context.Context, req *VMRequestBody) (*VMResponseBody, error) {
	return core.TypedCreate[VMResponseBody](ctx, r.TypedVergeResource, req)
}

// Update partially updates a VM by key. Zero fields are left out of the body.
func (r *VM) Update(key any, req *VMRequestBody) (*VMResponseBody, error) {
	return r.UpdateWithContext(r.Untyped.GetCtx(), key, req)
}

// UpdateWithContext partially updates a VM by key using the provided context.
func (r *VM) UpdateWithContext(ctx context.Context, key any, req *VMRequestBody) (*VMResponseBody, error) {
	return core.TypedUpdate[VMResponseBody](ctx, r.TypedVergeResource, key, req)
}

// Delete deletes a VM by key.
func (r *VM) Delete(key any) error {
	return r.DeleteWithContext(r.Untyped.GetCtx(), key)
}

// DeleteWithContext deletes a VM by key using the provided context.
func (r *VM) DeleteWithContext(ctx context.Context, key any) error {
	return core.TypedDelete(ctx, r.TypedVergeResource, key)
}
