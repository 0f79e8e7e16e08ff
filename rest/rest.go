package rest

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/verge-io/go-verge-client/api"
	"github.com/verge-io/go-verge-client/core"
	"github.com/verge-io/go-verge-client/resources/untyped"
)

// UntypedVergeResourceType defines the interface constraint for all untyped resources.
// Uses interface-based constraint to avoid Go's 100 union term limitation.
type UntypedVergeResourceType interface {
	core.VergeResourceAPIWithContext
}

// Bit flags representing which CRUD operations are supported
const (
	C = core.C
	L = core.L
	R = core.R
	U = core.U
	D = core.D
)

// UntypedVergeRest is the untyped VergeOS client: one accessor per table
// endpoint, all returning generic Record/RecordSet values.
type UntypedVergeRest struct {
	ctx         context.Context
	Session     core.RESTSession
	resourceMap map[string]core.VergeResourceAPIWithContext // resources by resourceType

	versionOnce     sync.Once
	versionCached   string
	versionCacheErr error

	schemasOnce sync.Once
	schemas     *api.SchemaStore

	VMs              *untyped.VM
	Machines         *untyped.Machine
	Drives           *untyped.Drive
	Nics             *untyped.Nic
	Snapshots        *untyped.Snapshot
	CloudSnapshots   *untyped.CloudSnapshot
	SnapshotProfiles *untyped.SnapshotProfile
	Tenants          *untyped.Tenant
	TenantStorage    *untyped.TenantStorage
	TenantNetworks   *untyped.TenantNetwork
	Networks         *untyped.Network
	NetworkRules     *untyped.NetworkRule
	Nodes            *untyped.Node
	NodeStats        *untyped.NodeStats
	StorageTiers     *untyped.StorageTier
	Clusters         *untyped.Cluster
	Users            *untyped.User
	Groups           *untyped.Group
	SharedObjects    *untyped.SharedObject
	Sites            *untyped.Site
	Settings         *untyped.Setting
}

func NewUntypedVergeRest(config *core.VergeConfig) (*UntypedVergeRest, error) {
	config.Validate(
		core.WithAuth,
		core.WithHost,
		core.WithUserAgent,
		core.WithFillFn,
		core.WithApiPrefix(core.ApiPrefix),
		core.WithTimeout(time.Second*30),
		core.WithMaxConnections(10),
		core.WithPort(443),
	)
	session, err := core.NewVergeSession(config)
	if err != nil {
		return nil, err
	}
	rest := &UntypedVergeRest{
		Session:     session,
		resourceMap: make(map[string]core.VergeResourceAPIWithContext),
	}

	// Set context: use provided context or default to background context
	if config.Context != nil {
		rest.SetCtx(config.Context)
	} else {
		rest.SetCtx(context.Background())
	}

	// Fill in each resource, pointing back to the same rest
	rest.VMs = newUntypedResource[untyped.VM](rest, "vms", C, L, R, U, D)
	rest.Machines = newUntypedResource[untyped.Machine](rest, "machines", L, R, U)
	rest.Drives = newUntypedResource[untyped.Drive](rest, "machine_drives", C, L, R, U, D)
	rest.Nics = newUntypedResource[untyped.Nic](rest, "machine_nics", C, L, R, U, D)
	rest.Snapshots = newUntypedResource[untyped.Snapshot](rest, "machine_snapshots", C, L, R, U, D)
	rest.CloudSnapshots = newUntypedResource[untyped.CloudSnapshot](rest, "cloud_snapshots", C, L, R, D)
	rest.SnapshotProfiles = newUntypedResource[untyped.SnapshotProfile](rest, "snapshot_profiles", C, L, R, U, D)
	rest.Tenants = newUntypedResource[untyped.Tenant](rest, "tenants", C, L, R, U, D)
	rest.TenantStorage = newUntypedResource[untyped.TenantStorage](rest, "tenant_storage", C, L, R, U, D)
	rest.TenantNetworks = newUntypedResource[untyped.TenantNetwork](rest, "tenant_networks", C, L, R, U, D)
	rest.Networks = newUntypedResource[untyped.Network](rest, "vnets", C, L, R, U, D)
	rest.NetworkRules = newUntypedResource[untyped.NetworkRule](rest, "vnet_rules", C, L, R, U, D)
	rest.Nodes = newUntypedResource[untyped.Node](rest, "nodes", L, R, U)
	rest.NodeStats = newUntypedResource[untyped.NodeStats](rest, "node_stats", L, R)
	rest.StorageTiers = newUntypedResource[untyped.StorageTier](rest, "storage_tiers", L, R, U)
	rest.Clusters = newUntypedResource[untyped.Cluster](rest, "clusters", L, R, U)
	rest.Users = newUntypedResource[untyped.User](rest, "users", C, L, R, U, D)
	rest.Groups = newUntypedResource[untyped.Group](rest, "groups", C, L, R, U, D)
	rest.SharedObjects = newUntypedResource[untyped.SharedObject](rest, "shared_objects", C, L, R, U, D)
	rest.Sites = newUntypedResource[untyped.Site](rest, "sites", L, R)
	rest.Settings = newUntypedResource[untyped.Setting](rest, "settings", L, R, U)

	// Action nouns: body field naming the target row in <endpoint>_actions.
	rest.VMs.SetActionNoun("vm")
	rest.Machines.SetActionNoun("machine")
	rest.Tenants.SetActionNoun("tenant")
	rest.Networks.SetActionNoun("vnet")
	rest.CloudSnapshots.SetActionNoun("cloud_snapshot")
	rest.SharedObjects.SetActionNoun("shared_object")

	// Site syncing appeared with multi-site management.
	rest.Sites.SetAvailableFromVersion("4.12.0")

	return rest, nil
}

func (rest *UntypedVergeRest) GetSession() core.RESTSession {
	return rest.Session
}

func (rest *UntypedVergeRest) GetResourceMap() map[string]core.VergeResourceAPIWithContext {
	return rest.resourceMap
}

func (rest *UntypedVergeRest) GetCtx() context.Context {
	return rest.ctx
}

func (rest *UntypedVergeRest) SetCtx(ctx context.Context) {
	rest.ctx = ctx
}

// SystemVersion reports the running VergeOS version, fetched once from the
// settings table and cached for the lifetime of the client.
func (rest *UntypedVergeRest) SystemVersion(ctx context.Context) (string, error) {
	rest.versionOnce.Do(func() {
		rest.versionCached, rest.versionCacheErr = rest.Settings.SystemVersionWithContext(ctx)
	})
	return rest.versionCached, rest.versionCacheErr
}

// Schemas returns the OpenAPI schema store backed by this client's session.
// The store is created on first use and shared afterwards.
func (rest *UntypedVergeRest) Schemas() *api.SchemaStore {
	rest.schemasOnce.Do(func() {
		rest.schemas = api.NewSchemaStore(rest.Session.(api.SchemaFetcher))
	})
	return rest.schemas
}

// Close revokes the session token and releases connections.
func (rest *UntypedVergeRest) Close() error {
	if closer, ok := rest.Session.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func newUntypedResource[T UntypedVergeResourceType](rest *UntypedVergeRest, resourcePath string, resourceOps ...core.ResourceOps) *T {
	// Get the concrete type from the type parameter
	var zero T
	t := reflect.TypeOf(zero)
	resourceType := t.Name()

	// Create new instance using reflection
	instance := reflect.New(t).Interface()

	// Create VergeResource with parent reference for hint rendering
	resource := core.NewVergeResource(resourcePath, resourceType, rest, core.NewResourceOps(resourceOps...), instance)

	// Set the embedded *VergeResource field using reflection.
	// All untyped resources embed *core.VergeResource.
	val := reflect.ValueOf(instance).Elem()

	found := false
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Type() == reflect.TypeOf((*core.VergeResource)(nil)) {
			if field.CanSet() {
				field.Set(reflect.ValueOf(resource))
				found = true
				break
			}
		}
	}

	if !found {
		panic(fmt.Sprintf("Resource %s does not embed *core.VergeResource or field is not settable", resourceType))
	}

	// Register in resource map
	if res, ok := instance.(core.VergeResourceAPIWithContext); ok {
		rest.resourceMap[resourceType] = res
	}

	// Return as pointer to the constrained type
	if result, ok := instance.(*T); ok {
		return result
	}
	panic(fmt.Sprintf("Failed to convert instance to type *%s", resourceType))
}
