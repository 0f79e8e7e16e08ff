package untyped

import (
	"context"
	"fmt"

	"github.com/verge-io/go-verge-client/core"
)

// Setting wraps the settings table, a flat name/value store for system-wide
// configuration. Rows are created by the system; clients only read and update.
type Setting struct {
	*core.VergeResource
}

// GetByNameWithContext fetches a single settings row by its name column.
func (s *Setting) GetByNameWithContext(ctx context.Context, name string) (core.Record, error) {
	params := core.Params{}
	core.NewFilter().Eq("name", name).ApplyTo(params)
	return s.GetWithContext(ctx, params)
}

// GetByName fetches a settings row by name using the bound REST context.
func (s *Setting) GetByName(name string) (core.Record, error) {
	return s.GetByNameWithContext(s.Rest.GetCtx(), name)
}

// SetValueWithContext updates the value column of a named settings row.
func (s *Setting) SetValueWithContext(ctx context.Context, name string, value any) (core.Record, error) {
	record, err := s.GetByNameWithContext(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.UpdateWithContext(ctx, record.RecordKey(), core.Params{"value": value})
}

// SetValue updates a named settings row using the bound REST context.
func (s *Setting) SetValue(name string, value any) (core.Record, error) {
	return s.SetValueWithContext(s.Rest.GetCtx(), name, value)
}

// SystemVersionWithContext reads the running system version from the
// settings table. Callers normally go through the cached accessor on the
// REST composition instead of hitting this directly.
func (s *Setting) SystemVersionWithContext(ctx context.Context) (string, error) {
	record, err := s.GetByNameWithContext(ctx, "version")
	if err != nil {
		return "", err
	}
	version, ok := record["value"].(string)
	if !ok || version == "" {
		return "", fmt.Errorf("settings row 'version' has no usable value")
	}
	return version, nil
}
