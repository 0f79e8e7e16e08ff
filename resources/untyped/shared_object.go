package untyped

import (
	"context"

	"github.com/verge-io/go-verge-client/core"
)

// SharedObject wraps the shared_objects table: ISOs, disk images, and other
// media shared across VMs and tenants. Remote pulls go through the
// shared_objects_actions companion table.
type SharedObject struct {
	*core.VergeResource
}

// Actions lists the verbs understood by the shared_objects_actions table.
func (s *SharedObject) Actions() []string {
	return []string{"import"}
}

// ImportWithContext pulls a remote object (by URL) into the media catalog
// under the given name. The pull runs server-side; the returned row can be
// polled until its status settles.
func (s *SharedObject) ImportWithContext(ctx context.Context, name, sourceURL string, params core.Params) (core.Record, error) {
	if sourceURL == "" {
		return nil, &core.ValidationError{Field: "url", Message: "source url cannot be empty"}
	}
	record, err := s.EnsureWithContext(ctx, core.Params{"name": name}, core.Params{"name": name})
	if err != nil {
		return nil, err
	}
	actionParams := core.Params{"url": sourceURL}
	actionParams.Update(params, false)
	return s.InvokeActionWithContext(ctx, "import", record.RecordKey(), actionParams)
}

// Import pulls a remote object using the bound REST context.
func (s *SharedObject) Import(name, sourceURL string, params core.Params) (core.Record, error) {
	return s.ImportWithContext(s.Rest.GetCtx(), name, sourceURL, params)
}
