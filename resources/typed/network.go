package typed

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// -----------------------------------------------------
// SEARCH PARAMS
// -----------------------------------------------------

// NetworkSearchParams represents the search parameters for Network
// operations against the vnets table.
type NetworkSearchParams struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty" required:"false" doc:"Filter by network name."`
	Type   string `json:"type,omitempty" yaml:"type,omitempty" required:"false" doc:"Filter by network type (internal, external)."`
	Status string `json:"status,omitempty" yaml:"status,omitempty" required:"false" doc:"Filter by power state."`

	RawData core.Params `json:"-" yaml:"-"`
}

// -----------------------------------------------------
// REQUEST BODY
// -----------------------------------------------------

// NetworkRequestBody represents the request body for Network create and
// update operations.
type NetworkRequestBody struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" required:"true" doc:"Network name."`
	Description string `json:"description,omitempty" yaml:"description,omitempty" required:"false" doc:"Free-form description."`
	Type        string `json:"type,omitempty" yaml:"type,omitempty" required:"false" doc:"Network type (internal, external)."`
	Network     string `json:"network,omitempty" yaml:"network,omitempty" required:"false" doc:"IPv4 network in CIDR form."`
	Gateway     string `json:"gateway,omitempty" yaml:"gateway,omitempty" required:"false" doc:"Gateway address inside the network."`
	DhcpEnabled bool   `json:"dhcp_enabled,omitempty" yaml:"dhcp_enabled,omitempty" required:"false" doc:"Serve DHCP on this network."`
	DhcpStart   string `json:"dhcp_start,omitempty" yaml:"dhcp_start,omitempty" required:"false" doc:"First address of the DHCP pool."`
	DhcpStop    string `json:"dhcp_stop,omitempty" yaml:"dhcp_stop,omitempty" required:"false" doc:"Last address of the DHCP pool."`
	Dns         string `json:"dns,omitempty" yaml:"dns,omitempty" required:"false" doc:"DNS mode or server list."`
	Mtu         int64  `json:"mtu,omitempty" yaml:"mtu,omitempty" required:"false" doc:"Interface MTU."`
}

// -----------------------------------------------------
// RESPONSE BODY
// -----------------------------------------------------

// NetworkResponseBody represents the response data for Network operations.
type NetworkResponseBody struct {
	Key         int64  `json:"$key,omitempty" yaml:"key,omitempty" required:"false" doc:"Primary key."`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" required:"false" doc:"Network name."`
	Description string `json:"description,omitempty" yaml:"description,omitempty" required:"false" doc:"Free-form description."`
	Type        string `json:"type,omitempty" yaml:"type,omitempty" required:"false" doc:"Network type."`
	Status      string `json:"status,omitempty" yaml:"status,omitempty" required:"false" doc:"Power state."`
	Network     string `json:"network,omitempty" yaml:"network,omitempty" required:"false" doc:"IPv4 network in CIDR form."`
	Gateway     string `json:"gateway,omitempty" yaml:"gateway,omitempty" required:"false" doc:"Gateway address."`
	DhcpEnabled bool   `json:"dhcp_enabled,omitempty" yaml:"dhcp_enabled,omitempty" required:"false" doc:"DHCP served on this network."`
	Mtu         int64  `json:"mtu,omitempty" yaml:"mtu,omitempty" required:"false" doc:"Interface MTU."`
	Machine     int64  `json:"machine,omitempty" yaml:"machine,omitempty" required:"false" doc:"Backing machine key of the network router."`
}

// -----------------------------------------------------
// RESOURCE METHODS
// -----------------------------------------------------

// Network provides typed access to the vnets table.
type Network struct {
	*core.TypedVergeResource
}

// Get retrieves a single network matching the search parameters.
func (r *Network) Get(req *NetworkSearchParams) (*NetworkResponseBody, error) {
	return r.GetWithContext(r.Untyped.GetCtx(), req)
}

// GetWithContext retrieves a single network using the provided context.
func (r *Network) GetWithContext(ctx context.Context, req *NetworkSearchParams) (*NetworkResponseBody, error) {
	return core.TypedGet[NetworkResponseBody](ctx, r.TypedVergeResource, req)
}

// GetByKey retrieves a single network by primary key.
func (r *Network) GetByKey(key any) (*NetworkResponseBody, error) {
	return r.GetByKeyWithContext(r.Untyped.GetCtx(), key)
}

// GetByKeyWithContext retrieves a single network by primary key using the
// provided context.
func (r *Network) GetByKeyWithContext(ctx context.Context, key any) (*NetworkResponseBody, error) {
	return core.TypedGetByKey[NetworkResponseBody](ctx, r.TypedVergeResource, key)
}

// List retrieves all networks matching the search parameters.
func (r *Network) List(req *NetworkSearchParams) ([]*NetworkResponseBody, error) {
	return r.ListWithContext(r.Untyped.GetCtx(), req)
}

// ListWithContext retrieves all networks using the provided context.
func (r *Network) ListWithContext(ctx context.Context, req *NetworkSearchParams) ([]*NetworkResponseBody, error) {
	return core.TypedList[NetworkResponseBody](ctx, r.TypedVergeResource, req)
}

// Create creates a new network.
func (r *Network) Create(req *NetworkRequestBody) (*NetworkResponseBody, error) {
	return r.CreateWithContext(r.Untyped.GetCtx(), req)
}

// CreateWithContext creates a new network using the provided context.
func (r *Network) CreateWithContext(ctx context.Context, req *NetworkRequestBody) (*NetworkResponseBody, error) {
	return core.TypedCreate[NetworkResponseBody](ctx, r.TypedVergeResource, req)
}

// Update partially updates a network by key.
func (r *Network) Update(key any, req *NetworkRequestBody) (*NetworkResponseBody, error) {
	return r.UpdateWithContext(r.Untyped.GetCtx(), key, req)
}

// UpdateWithContext partially updates a network by key using the provided
// context.
func (r *Network) UpdateWithContext(ctx context.Context, key any, req *NetworkRequestBody) (*NetworkResponseBody, error) {
	return core.TypedUpdate[NetworkResponseBody](ctx, r.TypedVergeResource, key, req)
}

// Delete deletes a network by key.
func (r *Network) Delete(key any) error {
	return r.DeleteWithContext(r.Untyped.GetCtx(), key)
}

// DeleteWithContext deletes a network by key using the provided context.
func (r *Network) DeleteWithContext(ctx context.Context, key any) error {
	return core.TypedDelete(ctx, r.TypedVergeResource, key)
}
