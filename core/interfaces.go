package core

import (
	"context"
	"io"
	"net/http"
)

// VergeResourceAPI defines the interface for standard CRUD operations on a VergeOS resource.
type VergeResourceAPI interface {
	Session() RESTSession
	GetResourceType() string
	GetResourcePath() string // table endpoint under /api/v4

	List(Params) (RecordSet, error)
	Create(Params) (Record, error)
	Update(any, Params) (Record, error)
	Delete(Params, Params) (EmptyRecord, error)
	DeleteByKey(any, Params, Params) (EmptyRecord, error)
	Ensure(Params, Params) (Record, error)
	Get(Params) (Record, error)
	GetByKey(any) (Record, error)
	Exists(Params) (bool, error)
	MustExists(Params) bool
	// Resource-level mutex lock for concurrent access control
	Lock(...any) func()
}

type VergeResourceAPIWithContext interface {
	VergeResourceAPI
	ListWithContext(context.Context, Params) (RecordSet, error)
	CreateWithContext(context.Context, Params) (Record, error)
	UpdateWithContext(context.Context, any, Params) (Record, error)
	DeleteWithContext(context.Context, Params, Params) (EmptyRecord, error)
	DeleteByKeyWithContext(context.Context, any, Params, Params) (EmptyRecord, error)
	EnsureWithContext(context.Context, Params, Params) (Record, error)
	GetWithContext(context.Context, Params) (Record, error)
	GetByKeyWithContext(context.Context, any) (Record, error)
	ExistsWithContext(context.Context, Params) (bool, error)
	MustExistsWithContext(context.Context, Params) bool

	getRest() VergeRestAPI
	getAvailableFromVersion() string
}

// InterceptableVergeResourceAPI combines request interception with resource behavior.
type InterceptableVergeResourceAPI interface {
	RequestInterceptor
	VergeResourceAPIWithContext
}

// ActionInvoker is implemented by resources whose table has a companion
// <endpoint>_actions table for asynchronous verbs.
type ActionInvoker interface {
	InvokeAction(action string, key any, actionParams Params) (Record, error)
	InvokeActionWithContext(ctx context.Context, action string, key any, actionParams Params) (Record, error)
}

// RequestInterceptor defines a middleware-style interface for intercepting API
// requests and responses. It allows implementing logic that runs before sending
// a request and after receiving a response: logging, request mutation,
// authentication, response transformation.
type RequestInterceptor interface {
	// BeforeRequest is invoked prior to sending the API request.
	BeforeRequest(context.Context, *http.Request, string, string, io.Reader) error

	// AfterRequest is invoked after the API response is received. The input
	// and output are Renderable (Record, RecordSet or EmptyRecord); the
	// method can inspect, mutate, or log the response data.
	AfterRequest(context.Context, Renderable) (Renderable, error)

	// doBeforeRequest No need to implement on resources. For internal usage only
	doBeforeRequest(context.Context, *http.Request, string, string, io.Reader) error

	// doAfterRequest No need to implement on resources. For internal usage only
	doAfterRequest(context.Context, Renderable) (Renderable, error)
}

type VergeRestAPI interface {
	GetSession() RESTSession
	GetResourceMap() map[string]VergeResourceAPIWithContext
	GetCtx() context.Context
	SetCtx(context.Context)
	SystemVersion(context.Context) (string, error)
}
