package rest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/verge-io/go-verge-client/api"
	"github.com/verge-io/go-verge-client/core"
	"github.com/verge-io/go-verge-client/resources/typed"
)

// TypedVergeResourceType defines the interface constraint for all typed
// resources. All typed resources implement this by embedding
// *core.TypedVergeResource.
type TypedVergeResourceType interface {
	GetResourceType() string
}

// TypedVergeRest layers struct-typed request and response bodies over the
// untyped client for the tables that benefit from them most.
type TypedVergeRest struct {
	Untyped *UntypedVergeRest

	VMs      *typed.VM
	Tenants  *typed.Tenant
	Networks *typed.Network
}

func NewTypedVergeRest(config *core.VergeConfig) (*TypedVergeRest, error) {
	untyped, err := NewUntypedVergeRest(config)
	if err != nil {
		return nil, err
	}

	rest := &TypedVergeRest{
		Untyped: untyped,
	}

	rest.VMs = newTypedResource[typed.VM](rest)
	rest.Tenants = newTypedResource[typed.Tenant](rest)
	rest.Networks = newTypedResource[typed.Network](rest)

	return rest, nil
}

func (rest *TypedVergeRest) GetCtx() context.Context {
	return rest.Untyped.GetCtx()
}

func (rest *TypedVergeRest) SetCtx(ctx context.Context) {
	rest.Untyped.SetCtx(ctx)
}

// Schemas returns the OpenAPI schema store shared with the untyped client.
func (rest *TypedVergeRest) Schemas() *api.SchemaStore {
	return rest.Untyped.Schemas()
}

// Close revokes the session token and releases connections.
func (rest *TypedVergeRest) Close() error {
	return rest.Untyped.Close()
}

func newTypedResource[T TypedVergeResourceType](rest *TypedVergeRest) *T {
	var zero T
	t := reflect.TypeOf(zero)
	resourceType := t.Name()

	instance := reflect.New(t).Interface()

	// The resource map is keyed by the untyped type names, so typed types
	// share names with their untyped counterparts.
	typedRes := core.NewTypedVergeResource(resourceType, rest.Untyped)

	val := reflect.ValueOf(instance).Elem()

	found := false
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Type() == reflect.TypeOf((*core.TypedVergeResource)(nil)) {
			if field.CanSet() {
				field.Set(reflect.ValueOf(typedRes))
				found = true
				break
			}
		}
	}

	if !found {
		panic(fmt.Sprintf("Resource %s does not embed *core.TypedVergeResource or field is not settable", resourceType))
	}

	if result, ok := instance.(*T); ok {
		return result
	}
	panic(fmt.Sprintf("Failed to convert instance to type *%s", resourceType))
}
