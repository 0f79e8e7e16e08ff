package typed

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// -----------------------------------------------------
// SEARCH PARAMS
// -----------------------------------------------------

// TenantSearchParams represents the search parameters for Tenant operations
// against the tenants table.
type TenantSearchParams struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty" required:"false" doc:"Filter by tenant name."`
	Status  string `json:"status,omitempty" yaml:"status,omitempty" required:"false" doc:"Filter by power state."`
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" required:"false" doc:"Filter by enabled flag."`

	RawData core.Params `json:"-" yaml:"-"`
}

// -----------------------------------------------------
// REQUEST BODY
// -----------------------------------------------------

// TenantRequestBody represents the request body for Tenant create and
// update operations.
type TenantRequestBody struct {
	Name          string `json:"name,omitempty" yaml:"name,omitempty" required:"true" doc:"Tenant name."`
	Description   string `json:"description,omitempty" yaml:"description,omitempty" required:"false" doc:"Free-form description."`
	Enabled       bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" required:"false" doc:"Whether the tenant may be powered on."`
	Url           string `json:"url,omitempty" yaml:"url,omitempty" required:"false" doc:"UI URL assigned to the tenant."`
	AdminUser     string `json:"admin_user,omitempty" yaml:"admin_user,omitempty" required:"false" doc:"Initial admin user created inside the tenant."`
	AdminPassword string `json:"admin_password,omitempty" yaml:"admin_password,omitempty" required:"false" doc:"Password for the initial admin user."`
	TotalCores    int64  `json:"total_cores,omitempty" yaml:"total_cores,omitempty" required:"false" doc:"CPU cores allocated to the tenant."`
	TotalRam      int64  `json:"total_ram,omitempty" yaml:"total_ram,omitempty" required:"false" doc:"RAM in MB allocated to the tenant."`
	ExposeCloudSnapshots bool `json:"expose_cloud_snapshots,omitempty" yaml:"expose_cloud_snapshots,omitempty" required:"false" doc:"Let the tenant see system cloud snapshots."`
}

// -----------------------------------------------------
// RESPONSE BODY
// -----------------------------------------------------

// TenantResponseBody represents the response data for Tenant operations.
type TenantResponseBody struct {
	Key         int64  `json:"$key,omitempty" yaml:"key,omitempty" required:"false" doc:"Primary key."`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" required:"false" doc:"Tenant name."`
	Description string `json:"description,omitempty" yaml:"description,omitempty" required:"false" doc:"Free-form description."`
	Enabled     bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" required:"false" doc:"Whether the tenant may be powered on."`
	Status      string `json:"status,omitempty" yaml:"status,omitempty" required:"false" doc:"Power state."`
	Url         string `json:"url,omitempty" yaml:"url,omitempty" required:"false" doc:"UI URL assigned to the tenant."`
	TotalCores  int64  `json:"total_cores,omitempty" yaml:"total_cores,omitempty" required:"false" doc:"CPU cores allocated to the tenant."`
	TotalRam    int64  `json:"total_ram,omitempty" yaml:"total_ram,omitempty" required:"false" doc:"RAM in MB allocated to the tenant."`
	Created     int64  `json:"created,omitempty" yaml:"created,omitempty" required:"false" doc:"Creation time, unix epoch."`
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// Tenant provides typed access to the tenants table.
type Tenant struct {
	*core.TypedVergeResource
}

// Get retrieves a single tenant matching the search parameters.
func (r *Tenant) Get(req *TenantSearchParams) (*TenantResponseBody, error) {
	return r.GetWithContext(r.Untyped.GetCtx(), req)
}

// GetWithContext retrieves a single tenant using the provided context.
func (r *Tenant) GetWithContext(ctx context.Context, req *TenantSearchParams) (*TenantResponseBody, error) {
	return core.TypedGet[TenantResponseBody](ctx, r.TypedVergeResource, req)
}

// GetByKey retrieves a single tenant by primary key.
func (r *Tenant) GetByKey(key any) (*TenantResponseBody, error) {
	return r.GetByKeyWithContext(r.Untyped.GetCtx(), key)
}

// GetByKeyWithContext retrieves a single tenant by primary key using the
// provided context.
func (r *Tenant) GetByKeyWithContext(ctx context.Context, key any) (*TenantResponseBody, error) {
	return core.TypedGetByKey[TenantResponseBody](ctx, r.TypedVergeResource, key)
}

// List retrieves all tenants matching the search parameters.
func (r *Tenant) List(req *TenantSearchParams) ([]*TenantResponseBody, error) {
	return r.ListWithContext(r.Untyped.GetCtx(), req)
}

// ListWithContext retrieves all tenants using the provided context.
func (r *Tenant) ListWithContext(ctx context.Context, req *TenantSearchParams) ([]*TenantResponseBody, error) {
	return core.TypedList[TenantResponseBody](ctx, r.TypedVergeResource, req)
}

// Create creates a new tenant.
func (r *Tenant) Create(req *TenantRequestBody) (*TenantResponseBody, error) {
	return r.CreateWithContext(r.Untyped.GetCtx(), req)
}

// CreateWithContext creates a new tenant using the provided context.
func (r *Tenant) CreateWithContext(ctx context.Context, req *TenantRequestBody) (*TenantResponseBody, error) {
	return core.TypedCreate[TenantResponseBody](ctx, r.TypedVergeResource, req)
}

// Update partially updates a tenant by key.
func (r *Tenant) Update(key any, req *TenantRequestBody) (*TenantResponseBody, error) {
	return r.UpdateWithContext(r.Untyped.GetCtx(), key, req)
}

// UpdateWithContext partially updates a tenant by key using the provided
// context.
func (r *Tenant) UpdateWithContext(ctx context.Context, key any, req *TenantRequestBody) (*TenantResponseBody, error) {
	return core.TypedUpdate[TenantResponseBody](ctx, r.TypedVergeResource, key, req)
}

// Delete deletes a tenant by key.
func (r *Tenant) Delete(key any) error {
	return r.DeleteWithContext(r.Untyped.GetCtx(), key)
}

// DeleteWithContext deletes a tenant by key using the provided context.
func (r *Tenant) DeleteWithContext(ctx context.Context, key any) error {
	return core.TypedDelete(ctx, r.TypedVergeResource, key)
}
