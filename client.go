package verge_client

import (
	"sync"

	"github.com/verge-io/go-verge-client/core"
	"github.com/verge-io/go-verge-client/rest"
)

type (
	VergeConfig                   = core.VergeConfig
	Params                        = core.Params
	Record                        = core.Record
	RecordSet                     = core.RecordSet
	Renderable                    = core.Renderable
	Filter                        = core.Filter
	FieldSpec                     = core.FieldSpec
	SortSpec                      = core.SortSpec
	ResourceReference             = core.ResourceReference
	WaitConfig                    = core.WaitConfig
	TypedVergeRest                = rest.TypedVergeRest
	UntypedVergeRest              = rest.UntypedVergeRest
	VergeResourceAPI              = core.VergeResourceAPI
	VergeResourceAPIWithContext   = core.VergeResourceAPIWithContext
	InterceptableVergeResourceAPI = core.InterceptableVergeResourceAPI
)

// Re-exported constructors for the common building blocks.
var (
	NewFilter    = core.NewFilter
	NewFieldSpec = core.NewFieldSpec
	NewSortSpec  = core.NewSortSpec
	RefByKey     = core.RefByKey
	RefByName    = core.RefByName
	RefByRecord  = core.RefByRecord
)

func NewUntypedVergeRest(config *VergeConfig) (*UntypedVergeRest, error) {
	return rest.NewUntypedVergeRest(config)
}

func NewTypedVergeRest(config *VergeConfig) (*TypedVergeRest, error) {
	return rest.NewTypedVergeRest(config)
}

var (
	defaultMu     sync.RWMutex
	defaultClient *UntypedVergeRest
)

// SetDefault installs a process-wide default client for callers that prefer
// not to thread one through. Connections are never created implicitly; the
// default stays nil until set here.
func SetDefault(client *UntypedVergeRest) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = client
}

// Default returns the client installed with SetDefault, or nil.
func Default() *UntypedVergeRest {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClient
}
