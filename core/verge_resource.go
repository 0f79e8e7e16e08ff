package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	version "github.com/hashicorp/go-version"
)

// Dummy resource is used to support request interceptors for "low level" session methods like GET, POST etc.
type Dummy struct {
	*VergeResource
}

type DummyRest struct {
	ctx         context.Context
	Session     RESTSession
	resourceMap map[string]VergeResourceAPIWithContext
}

func (rest *DummyRest) GetSession() RESTSession {
	return rest.Session
}

func (rest *DummyRest) GetResourceMap() map[string]VergeResourceAPIWithContext {
	return rest.resourceMap
}

func (rest *DummyRest) GetCtx() context.Context {
	return rest.ctx
}

func (rest *DummyRest) SetCtx(ctx context.Context) {
	rest.ctx = ctx
}

func (rest *DummyRest) SystemVersion(_ context.Context) (string, error) {
	return "", nil
}

func NewDummy(ctx context.Context, session RESTSession) *Dummy {
	dummy := &Dummy{
		VergeResource: &VergeResource{
			resourceType: "Dummy",
			resourcePath: "",
			mu:           NewKeyLocker(),
		},
	}
	rest := &DummyRest{
		ctx:         ctx,
		Session:     session,
		resourceMap: map[string]VergeResourceAPIWithContext{"Dummy": dummy},
	}
	dummy.Rest = rest
	return dummy
}

//  ######################################################
//              VERGE RESOURCES BASE CRUD OPS
//  ######################################################

// VergeResource implements VergeResourceAPI and provides common behavior for
// managing VergeOS table resources. Every table endpoint shares the same
// grammar: GET lists rows, GET with a key reads one row, POST inserts,
// PUT updates fields in place, DELETE removes by key. Rows are addressed by
// the "$key" column.
type VergeResource struct {
	resourcePath         string
	resourceType         string
	actionNoun           string // body field naming the target row in <endpoint>_actions submissions
	availableFromVersion string
	Rest                 VergeRestAPI
	mu                   *KeyLocker
	resourceOps          ResourceOps
	parent               any // Reference to the parent resource that embeds this VergeResource
}

func NewVergeResource(resourcePath, resourceType string, rest VergeRestAPI, resourceOps ResourceOps, parent any) *VergeResource {
	return &VergeResource{
		resourcePath: resourcePath,
		resourceType: resourceType,
		Rest:         rest,
		mu:           NewKeyLocker(),
		resourceOps:  resourceOps,
		parent:       parent,
	}
}

// SetActionNoun declares the body field used to address the target row when
// submitting rows to the companion <endpoint>_actions table.
func (e *VergeResource) SetActionNoun(noun string) {
	e.actionNoun = noun
}

// SetAvailableFromVersion gates the resource behind a minimum system version.
func (e *VergeResource) SetAvailableFromVersion(ver string) {
	e.availableFromVersion = ver
}

func (e *VergeResource) getAvailableFromVersion() string {
	return e.availableFromVersion
}

func (e *VergeResource) getRest() VergeRestAPI {
	return e.Rest
}

// Session returns the current VergeSession associated with the resource.
func (e *VergeResource) Session() RESTSession {
	return e.Rest.GetSession()
}

func (e *VergeResource) GetResourceType() string {
	return e.resourceType
}

func (e *VergeResource) GetResourcePath() string {
	return sanitizeEndpoint(e.resourcePath)
}

// checkVersionCompat verifies the running system is new enough for this
// resource. Resources without a version gate always pass.
func checkVersionCompat(ctx context.Context, r VergeResourceAPIWithContext) error {
	availableFrom := r.getAvailableFromVersion()
	if availableFrom == "" {
		return nil
	}
	systemVersionRaw, err := r.getRest().SystemVersion(ctx)
	if err != nil {
		return err
	}
	if systemVersionRaw == "" {
		return nil
	}
	sanitized, _ := sanitizeVersion(systemVersionRaw)
	systemVersion, err := version.NewVersion(sanitized)
	if err != nil {
		return fmt.Errorf("cannot parse system version %q: %w", systemVersionRaw, err)
	}
	requiredVersion, err := version.NewVersion(availableFrom)
	if err != nil {
		return fmt.Errorf("cannot parse required version %q: %w", availableFrom, err)
	}
	if systemVersion.LessThan(requiredVersion) {
		return fmt.Errorf(
			"resource %q is not supported in system version %s (supported from version %s)",
			r.GetResourceType(), systemVersionRaw, availableFrom,
		)
	}
	return nil
}

// ListWithContext retrieves all rows matching the given parameters using the provided context.
// List responses arrive as flat JSON arrays; there is no pagination envelope.
func (e *VergeResource) ListWithContext(ctx context.Context, params Params) (RecordSet, error) {
	if err := checkVersionCompat(ctx, e); err != nil {
		return nil, err
	}
	result, err := Request[RecordSet](ctx, e, http.MethodGet, e.resourcePath, params, nil)
	if !e.resourceOps.has(L) && ExpectStatusCodes(err, http.StatusNotFound) {
		attachHints(err, e.describeResourceFrom(e.self()))
	}
	return result, err
}

// CreateWithContext inserts a new row using the provided parameters and context.
func (e *VergeResource) CreateWithContext(ctx context.Context, body Params) (Record, error) {
	if err := checkVersionCompat(ctx, e); err != nil {
		return nil, err
	}
	result, err := Request[Record](ctx, e, http.MethodPost, e.resourcePath, nil, body)
	if !e.resourceOps.has(C) && ExpectStatusCodes(err, http.StatusNotFound) {
		attachHints(err, e.describeResourceFrom(e.self()))
	}
	return result, err
}

// UpdateWithContext updates fields of an existing row by its key using the
// provided parameters and context. The update is partial: fields absent from
// the body keep their current value.
func (e *VergeResource) UpdateWithContext(ctx context.Context, key any, body Params) (Record, error) {
	path := buildResourcePathWithKey(e.resourcePath, key)
	result, err := Request[Record](ctx, e, http.MethodPut, path, nil, body)
	if !e.resourceOps.has(U) && ExpectStatusCodes(err, http.StatusNotFound) {
		attachHints(err, e.describeResourceFrom(e.self()))
	}
	return result, err
}

// DeleteWithContext deletes the row found using searchParams, using the provided
// deleteParams, within the given context. A row that is already gone is not an
// error condition for Delete.
func (e *VergeResource) DeleteWithContext(ctx context.Context, searchParams, deleteParams Params) (EmptyRecord, error) {
	result, err := e.GetWithContext(ctx, searchParams)
	if err != nil {
		if IsNotFoundErr(err) {
			return EmptyRecord{}, nil
		}
		return nil, err
	}
	if !result.HasKey() {
		return nil, fmt.Errorf(
			"resource %q row carries no %q field and thereby cannot be deleted by key",
			e.GetResourceType(), KeyField,
		)
	}
	return e.DeleteByKeyWithContext(ctx, result.RecordKey(), nil, deleteParams)
}

// DeleteByKeyWithContext deletes a row by its key using the provided context and delete parameters.
func (e *VergeResource) DeleteByKeyWithContext(ctx context.Context, key any, queryParams, deleteParams Params) (EmptyRecord, error) {
	path := buildResourcePathWithKey(e.resourcePath, key)
	result, err := Request[Record](ctx, e, http.MethodDelete, path, queryParams, deleteParams)
	if !e.resourceOps.has(D) && ExpectStatusCodes(err, http.StatusNotFound) {
		attachHints(err, e.describeResourceFrom(e.self()))
	}
	if err != nil {
		return nil, err
	}
	return EmptyRecord(result), nil
}

// EnsureWithContext ensures a row matching the search parameters exists. If not, it creates it using the body.
func (e *VergeResource) EnsureWithContext(ctx context.Context, searchParams Params, body Params) (Record, error) {
	result, err := e.GetWithContext(ctx, searchParams)
	if IsNotFoundErr(err) {
		return e.CreateWithContext(ctx, body)
	} else if err != nil {
		return nil, err
	}
	return result, nil
}

// GetWithContext retrieves a single row that matches the given parameters using the provided context.
// Returns a NotFoundError if no row is found and a TooManyRecordsError when
// the query is ambiguous.
func (e *VergeResource) GetWithContext(ctx context.Context, params Params) (Record, error) {
	result, err := e.ListWithContext(ctx, params)
	if err != nil {
		return nil, err
	}
	switch len(result) {
	case 0:
		return nil, &NotFoundError{
			Resource: e.resourcePath,
			Query:    params.ToQuery(),
		}
	case 1:
		singleResult := result[0]
		if singleResult.Empty() {
			return nil, &NotFoundError{
				Resource: e.resourcePath,
				Query:    params.ToQuery(),
			}
		}
		return singleResult, nil
	default:
		return nil, &TooManyRecordsError{
			ResourcePath: e.resourcePath,
			Params:       params,
		}
	}
}

// GetByKeyWithContext retrieves a row by its key using the provided context.
//
// Keys are numeric for most tables but a handful (settings rows, token rows)
// address by string, so the method accepts a generic key and formats the
// request path to handle both.
func (e *VergeResource) GetByKeyWithContext(ctx context.Context, key any) (Record, error) {
	path := buildResourcePathWithKey(e.resourcePath, key)
	record, err := Request[Record](ctx, e, http.MethodGet, path, nil, nil)
	if !e.resourceOps.has(R) && ExpectStatusCodes(err, http.StatusNotFound) {
		attachHints(err, e.describeResourceFrom(e.self()))
	}
	return record, err
}

// ExistsWithContext checks if any row matches the provided parameters within the given context.
// Returns true if a match is found. Returns false if not found. Returns an error only if an unexpected failure occurs.
func (e *VergeResource) ExistsWithContext(ctx context.Context, params Params) (bool, error) {
	if _, err := e.GetWithContext(ctx, params); err != nil && !IsTooManyRecordsErr(err) {
		if !IsNotFoundErr(err) {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// MustExistsWithContext checks if a row exists using the provided context and parameters.
// This method panics if an unexpected error occurs during the check.
func (e *VergeResource) MustExistsWithContext(ctx context.Context, params Params) bool {
	return Must(e.ExistsWithContext(ctx, params))
}

var _ ActionInvoker = (*VergeResource)(nil)

// InvokeActionWithContext submits a verb to the companion <endpoint>_actions
// table: {<noun>: key, "action": action, "params": {...}}. The returned row
// describes the queued action; completion is observed by polling the target
// row's status (see WaitForState).
func (e *VergeResource) InvokeActionWithContext(ctx context.Context, action string, key any, actionParams Params) (Record, error) {
	if e.actionNoun == "" {
		return nil, fmt.Errorf("resource %q does not support actions", e.GetResourceType())
	}
	body := Params{
		e.actionNoun: key,
		"action":     action,
	}
	if len(actionParams) > 0 {
		body["params"] = actionParams
	}
	actionsPath := sanitizeEndpoint(e.resourcePath) + "_actions"
	return Request[Record](ctx, e, http.MethodPost, actionsPath, nil, body)
}

// InvokeAction submits a verb to the companion actions table using the bound REST context.
func (e *VergeResource) InvokeAction(action string, key any, actionParams Params) (Record, error) {
	return e.InvokeActionWithContext(e.Rest.GetCtx(), action, key, actionParams)
}

// List retrieves all rows matching the given parameters using the bound REST context.
func (e *VergeResource) List(params Params) (RecordSet, error) {
	return e.ListWithContext(e.Rest.GetCtx(), params)
}

// Create inserts a new row using the provided parameters and the bound REST context.
func (e *VergeResource) Create(params Params) (Record, error) {
	return e.CreateWithContext(e.Rest.GetCtx(), params)
}

// Update updates a row by its key using the provided parameters and the bound REST context.
func (e *VergeResource) Update(key any, params Params) (Record, error) {
	return e.UpdateWithContext(e.Rest.GetCtx(), key, params)
}

// Delete deletes a row found with searchParams using deleteParams and the bound REST context.
// Returns success even if the row is not found.
func (e *VergeResource) Delete(searchParams, deleteParams Params) (EmptyRecord, error) {
	return e.DeleteWithContext(e.Rest.GetCtx(), searchParams, deleteParams)
}

// DeleteByKey deletes a row by its key using the bound REST context and provided deleteParams.
func (e *VergeResource) DeleteByKey(key any, queryParams, deleteParams Params) (EmptyRecord, error) {
	return e.DeleteByKeyWithContext(e.Rest.GetCtx(), key, queryParams, deleteParams)
}

// Ensure ensures a row exists matching the searchParams. Creates it with body if not found.
func (e *VergeResource) Ensure(searchParams, body Params) (Record, error) {
	return e.EnsureWithContext(e.Rest.GetCtx(), searchParams, body)
}

// Get retrieves a single row matching the given parameters using the bound REST context.
// Returns NotFoundError if the row does not exist.
func (e *VergeResource) Get(params Params) (Record, error) {
	return e.GetWithContext(e.Rest.GetCtx(), params)
}

// GetByKey retrieves a row by its key using the bound REST context.
func (e *VergeResource) GetByKey(key any) (Record, error) {
	return e.GetByKeyWithContext(e.Rest.GetCtx(), key)
}

// Exists checks if any row matches the given parameters using the bound REST context.
func (e *VergeResource) Exists(params Params) (bool, error) {
	return e.ExistsWithContext(e.Rest.GetCtx(), params)
}

// MustExists performs an existence check, panicking on unexpected errors.
// Intended for control paths where failures are not expected or tolerated.
func (e *VergeResource) MustExists(params Params) bool {
	return e.MustExistsWithContext(e.Rest.GetCtx(), params)
}

// Lock acquires the resource-level mutex and returns a function to release it.
// This allows for convenient deferring of unlock operations:
//
//	defer resource.Lock()()
func (e *VergeResource) Lock(keys ...any) func() {
	return e.mu.Lock(keys...)
}

// self returns the parent struct embedding this VergeResource when known.
func (e *VergeResource) self() any {
	if e.parent != nil {
		return e.parent
	}
	return e
}

func (e *VergeResource) String() string {
	return e.describeResourceFrom(e.self())
}

// attachHints adds resource usage hints to the wrapped ApiError, if any.
func attachHints(err error, hints string) {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		apiErr.hints = hints
	}
}

// actionVocabulary is implemented by resources that expose named verbs on a
// companion actions table.
type actionVocabulary interface {
	Actions() []string
}

// describeResourceFrom returns a description of all operations supported by a resource.
// parentResource should be the struct that embeds this VergeResource (e.g., *VMs).
func (e *VergeResource) describeResourceFrom(parentResource any) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("| %s\n", e.resourceType))

	hasAnyOps := e.resourceOps.isListable() || e.resourceOps.isReadable() ||
		e.resourceOps.isCreatable() || e.resourceOps.isUpdatable() || e.resourceOps.isDeletable()

	if !hasAnyOps {
		sb.WriteString("| supported hints:\n")
		sb.WriteString("|    [-]\n")
	} else {
		sb.WriteString("| supported hints:\n")

		if e.resourceOps.isListable() {
			sb.WriteString("|    [LIST]\n")
			sb.WriteString("|      - List / ListWithContext\n")
			sb.WriteString("|      - Get / GetWithContext\n")
			sb.WriteString("|      - Exists / ExistsWithContext\n")
		}

		if e.resourceOps.isReadable() {
			sb.WriteString("|    [DETAILS]\n")
			sb.WriteString("|      - GetByKey / GetByKeyWithContext\n")
		}

		if e.resourceOps.isCreatable() {
			sb.WriteString("|    [CREATE]\n")
			sb.WriteString("|      - Create / CreateWithContext\n")
			if e.resourceOps.isListable() {
				sb.WriteString("|      - Ensure / EnsureWithContext\n")
			}
		}

		if e.resourceOps.isUpdatable() {
			sb.WriteString("|    [UPDATE]\n")
			sb.WriteString("|      - Update / UpdateWithContext\n")
		}

		if e.resourceOps.isDeletable() {
			sb.WriteString("|    [DELETE]\n")
			sb.WriteString("|      - Delete / DeleteWithContext\n")
			sb.WriteString("|      - DeleteByKey / DeleteByKeyWithContext\n")
		}
	}

	if vocab, ok := parentResource.(actionVocabulary); ok {
		if actions := vocab.Actions(); len(actions) > 0 {
			sb.WriteString("| actions:\n")
			for _, action := range actions {
				sb.WriteString(fmt.Sprintf("|    - %s\n", action))
			}
		}
	}

	return sb.String()
}

//  ######################################################
//              TYPED VERGE RESOURCE
//  ######################################################

type TypedVergeResource struct {
	resourceType string
	Untyped      VergeRestAPI
}

func NewTypedVergeResource(resourceType string, rest VergeRestAPI) *TypedVergeResource {
	return &TypedVergeResource{
		resourceType: resourceType,
		Untyped:      rest,
	}
}

func (e *TypedVergeResource) getUntypedVergeResource() VergeResourceAPIWithContext {
	return e.Untyped.GetResourceMap()[e.resourceType]
}

// Session returns the current VergeSession associated with the resource.
func (e *TypedVergeResource) Session() RESTSession {
	return e.getUntypedVergeResource().Session()
}

func (e *TypedVergeResource) GetResourceType() string {
	return e.resourceType
}

// Lock acquires the resource-level mutex and returns a function to release it.
func (e *TypedVergeResource) Lock(keys ...any) func() {
	return e.getUntypedVergeResource().Lock(keys...)
}

func (e *TypedVergeResource) String() string {
	return fmt.Sprintf("%s", e.getUntypedVergeResource())
}

//  ######################################################
//              CRUD FLAGS
//  ######################################################

// ResourceOps is a bitmask representing which CRUD operations are supported
// by a given resource (Create, Read, Update, Delete).
type ResourceOps int

const (
	C ResourceOps = 1 << iota // Create permission
	L                         // Read (List) permissions
	R                         // Read (<entry>/<key>) permission
	U                         // Update permission
	D                         // Delete permission
)

// NewResourceOps creates a new bitmask from the provided flags.
// Example: NewResourceOps(R, U) -> Read+Update.
func NewResourceOps(flags ...ResourceOps) ResourceOps {
	var f ResourceOps
	for _, fl := range flags {
		f |= fl
	}
	return f
}

// has reports whether all given flags are present in the bitmask.
func (ops ResourceOps) has(flag ResourceOps) bool {
	return ops&flag == flag
}

// Convenience methods for checking specific operations
func (ops ResourceOps) isCreatable() bool { return ops&C != 0 }
func (ops ResourceOps) isListable() bool  { return ops&L != 0 }
func (ops ResourceOps) isReadable() bool  { return ops&R != 0 }
func (ops ResourceOps) isUpdatable() bool { return ops&U != 0 }
func (ops ResourceOps) isDeletable() bool { return ops&D != 0 }

// set returns a new bitmask with the given flag(s) enabled.
func (ops ResourceOps) set(flag ResourceOps) ResourceOps {
	return ops | flag
}

// clear returns a new bitmask with the given flag(s) disabled.
func (ops ResourceOps) clear(flag ResourceOps) ResourceOps {
	return ops &^ flag
}

// String returns a compact string representation of the active flags.
// Example: "CLRU", "LR", "CD", or "-" if no flags are set.
func (ops ResourceOps) String() string {
	if ops == ResourceOps(0) {
		return "-"
	}
	var b strings.Builder
	if ops&C != 0 {
		b.WriteByte('C')
	}
	if ops&L != 0 {
		b.WriteByte('L')
	}
	if ops&R != 0 {
		b.WriteByte('R')
	}
	if ops&U != 0 {
		b.WriteByte('U')
	}
	if ops&D != 0 {
		b.WriteByte('D')
	}
	return b.String()
}

// GetCRUDHintsFromResource extracts CRUD operation hints from a resource.
// This is useful for introspection and tooling purposes.
//
// Example:
//
//	hints := core.GetCRUDHintsFromResource(rest.VMs)
//	canCreate := hints & core.C != 0
func GetCRUDHintsFromResource(resource any) ResourceOps {
	if vr, ok := resource.(*VergeResource); ok {
		return vr.resourceOps
	}

	if _, ok := resource.(VergeResourceAPI); ok {
		// Use reflection to access the embedded *VergeResource field
		val := reflect.ValueOf(resource)
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if field.Type() == reflect.TypeOf((*VergeResource)(nil)) {
				if vr, ok := field.Interface().(*VergeResource); ok {
					return vr.resourceOps
				}
			}
		}
	}

	return ResourceOps(0)
}
