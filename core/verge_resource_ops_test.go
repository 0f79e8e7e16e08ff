package core

import (
	"context"
	"testing"
)

// MockRest implements VergeRestAPI for testing
type MockRest struct {
	ctx         context.Context
	session     RESTSession
	resourceMap map[string]VergeResourceAPIWithContext
	version     string
}

func (m *MockRest) GetSession() RESTSession {
	return m.session
}

func (m *MockRest) GetResourceMap() map[string]VergeResourceAPIWithContext {
	return m.resourceMap
}

func (m *MockRest) GetCtx() context.Context {
	return m.ctx
}

func (m *MockRest) SetCtx(ctx context.Context) {
	m.ctx = ctx
}

func (m *MockRest) SystemVersion(context.Context) (string, error) {
	if m.version == "" {
		return "4.13.0", nil
	}
	return m.version, nil
}

func TestResourceOpsValidation(t *testing.T) {
	tests := []struct {
		name        string
		resourceOps ResourceOps
		checkOp     ResourceOps
		expected    bool
	}{
		{"Read-only resource has Read", NewResourceOps(R), R, true},
		{"Read-only resource does not have Create", NewResourceOps(R), C, false},
		{"Read-only resource does not have Update", NewResourceOps(R), U, false},
		{"Read-only resource does not have Delete", NewResourceOps(R), D, false},
		{"Full resource has Create", NewResourceOps(C, L, R, U, D), C, true},
		{"Full resource has List", NewResourceOps(C, L, R, U, D), L, true},
		{"Full resource has Delete", NewResourceOps(C, L, R, U, D), D, true},
		{"List+Read resource does not have Create", NewResourceOps(L, R), C, false},
		{"List+Read resource has both flags", NewResourceOps(L, R), L | R, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.resourceOps.has(tt.checkOp)
			if result != tt.expected {
				t.Errorf("has(%v) = %v, want %v", tt.checkOp, result, tt.expected)
			}
		})
	}
}

func TestResourceOpsString(t *testing.T) {
	tests := []struct {
		name     string
		ops      ResourceOps
		expected string
	}{
		{"No operations", NewResourceOps(), "-"},
		{"Create only", NewResourceOps(C), "C"},
		{"List only", NewResourceOps(L), "L"},
		{"Read only", NewResourceOps(R), "R"},
		{"Full", NewResourceOps(C, L, R, U, D), "CLRUD"},
		{"List and Read", NewResourceOps(L, R), "LR"},
		{"Create and Delete", NewResourceOps(C, D), "CD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ops.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResourceOpsSetClear(t *testing.T) {
	ops := NewResourceOps(L, R)

	withUpdate := ops.set(U)
	if !withUpdate.has(U) || !withUpdate.has(L) {
		t.Errorf("set(U) = %v", withUpdate)
	}
	if ops.has(U) {
		t.Error("set must not mutate the receiver")
	}

	cleared := withUpdate.clear(L)
	if cleared.has(L) || !cleared.has(U) || !cleared.has(R) {
		t.Errorf("clear(L) = %v", cleared)
	}
}

func TestResourceOpsConvenience(t *testing.T) {
	ops := NewResourceOps(C, L, R, U, D)
	if !ops.isCreatable() || !ops.isListable() || !ops.isReadable() ||
		!ops.isUpdatable() || !ops.isDeletable() {
		t.Errorf("full bitmask should pass all checks: %v", ops)
	}

	readOnly := NewResourceOps(L, R)
	if readOnly.isCreatable() || readOnly.isUpdatable() || readOnly.isDeletable() {
		t.Errorf("read-only bitmask should fail write checks: %v", readOnly)
	}
}

func TestGetCRUDHintsFromResource(t *testing.T) {
	rest := &MockRest{ctx: context.Background()}
	resource := NewVergeResource("vms", "VM", rest, NewResourceOps(C, L, R, U, D), nil)

	hints := GetCRUDHintsFromResource(resource)
	if hints.String() != "CLRUD" {
		t.Errorf("hints = %v", hints)
	}

	readOnly := NewVergeResource("node_stats_short", "NodeStats", rest, NewResourceOps(L, R), nil)
	hints = GetCRUDHintsFromResource(readOnly)
	if hints.isCreatable() || !hints.isListable() {
		t.Errorf("hints = %v", hints)
	}
}

func TestVergeResourceAccessors(t *testing.T) {
	rest := &MockRest{ctx: context.Background()}
	resource := NewVergeResource("vms", "VM", rest, NewResourceOps(C, L, R, U, D), nil)

	if got := resource.GetResourcePath(); got != "vms" {
		t.Errorf("GetResourcePath() = %q", got)
	}
	if got := resource.GetResourceType(); got != "VM" {
		t.Errorf("GetResourceType() = %q", got)
	}
}
