package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/verge-io/go-verge-client/core"
	"github.com/verge-io/go-verge-client/resources/typed"
)

const testToken = "test-session-token"

// parseTestServerAddress extracts host and port from an httptest.Server address
func parseTestServerAddress(addr string) (host string, port uint64) {
	lastColon := strings.LastIndex(addr, ":")
	if lastColon == -1 {
		return addr, 443
	}
	host = addr[:lastColon]
	portNum, _ := strconv.ParseUint(addr[lastColon+1:], 10, 64)
	return host, portNum
}

// newTestRest spins up a fake VergeOS API behind TLS and connects a client to
// it. The wrapper handles login/logout on sys/tokens and enforces the session
// token header on every other request before delegating to handler.
func newTestRest(t *testing.T, handler http.HandlerFunc) (*UntypedVergeRest, func()) {
	t.Helper()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v4/sys/tokens") {
			switch r.Method {
			case http.MethodPost:
				w.Header().Set(core.HeaderContentType, core.ContentTypeJSON)
				json.NewEncoder(w).Encode(map[string]any{"$key": 1, "token": testToken})
			default:
				w.WriteHeader(http.StatusOK)
			}
			return
		}
		if got := r.Header.Get(core.HeaderSessionToken); got != testToken {
			http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}))

	host, port := parseTestServerAddress(server.Listener.Addr().String())
	rest, err := NewUntypedVergeRest(&core.VergeConfig{
		Host:     host,
		Port:     port,
		Username: "admin",
		Password: "secret",
	})
	if err != nil {
		server.Close()
		t.Fatalf("NewUntypedVergeRest() error = %v", err)
	}
	return rest, func() {
		rest.Close()
		server.Close()
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set(core.HeaderContentType, core.ContentTypeJSON)
	json.NewEncoder(w).Encode(v)
}

func TestUntypedRestList(t *testing.T) {
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/vms" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("fields"); got != "all" {
			t.Errorf("fields param = %q", got)
		}
		writeJSON(w, []map[string]any{
			{"$key": 1, "name": "web1", "status": "running"},
			{"$key": 2, "name": "db1", "status": "stopped"},
		})
	})
	defer cleanup()

	result, err := rest.VMs.List(core.Params{"fields": "all"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("List() returned %d rows", len(result))
	}
	if result[0].RecordName() != "web1" || result[1].RecordKey() != 2 {
		t.Errorf("unexpected rows: %v", result)
	}
}

func TestUntypedRestGetFiltersByName(t *testing.T) {
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		if filter != "name eq 'web1'" {
			t.Errorf("filter = %q", filter)
		}
		writeJSON(w, []map[string]any{{"$key": 1, "name": "web1", "status": "running"}})
	})
	defer cleanup()

	params := core.Params{}
	core.NewFilter().Eq("name", "web1").ApplyTo(params)
	record, err := rest.VMs.Get(params)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if record.RecordKey() != 1 {
		t.Errorf("record = %v", record)
	}
}

func TestUntypedRestGetNotFound(t *testing.T) {
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{})
	})
	defer cleanup()

	_, err := rest.VMs.Get(core.Params{"filter": "name eq 'missing'"})
	if !core.IsNotFoundErr(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestUntypedRestGetTooManyRecords(t *testing.T) {
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"$key": 1}, {"$key": 2}})
	})
	defer cleanup()

	_, err := rest.VMs.Get(core.Params{"filter": "enabled eq true"})
	if !core.IsTooManyRecordsErr(err) {
		t.Errorf("expected TooManyRecordsError, got %v", err)
	}
}

func TestUntypedRestCreateAndDelete(t *testing.T) {
	var deleted atomic.Bool
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v4/vms":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "web2" {
				t.Errorf("create body = %v", body)
			}
			writeJSON(w, map[string]any{"$key": 7, "name": "web2", "status": "stopped"})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v4/vms/7":
			deleted.Store(true)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	defer cleanup()

	record, err := rest.VMs.Create(core.Params{"name": "web2", "cpu_cores": 2})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if record.RecordKey() != 7 {
		t.Errorf("created key = %d", record.RecordKey())
	}

	if _, err = rest.VMs.DeleteByKey(7, nil, nil); err != nil {
		t.Fatalf("DeleteByKey() error = %v", err)
	}
	if !deleted.Load() {
		t.Error("DELETE was never issued")
	}
}

func TestVMPowerOnInvokesAction(t *testing.T) {
	var actionBody map[string]any
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v4/vms":
			writeJSON(w, []map[string]any{{"$key": 3, "name": "web1", "status": "stopped"}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v4/vms_actions":
			json.NewDecoder(r.Body).Decode(&actionBody)
			writeJSON(w, map[string]any{"$key": 100, "action": "poweron"})
		default:
			http.NotFound(w, r)
		}
	})
	defer cleanup()

	if _, err := rest.VMs.PowerOn(core.RefByName("web1")); err != nil {
		t.Fatalf("PowerOn() error = %v", err)
	}
	if actionBody["action"] != "poweron" {
		t.Errorf("action = %v", actionBody["action"])
	}
	if actionBody["vm"] != float64(3) {
		t.Errorf("vm key = %v", actionBody["vm"])
	}
}

func TestVMPowerOnShortCircuitsWhenRunning(t *testing.T) {
	var actionCalls atomic.Int32
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v4/vms":
			writeJSON(w, []map[string]any{{"$key": 3, "name": "web1", "status": "running"}})
		case r.URL.Path == "/api/v4/vms_actions":
			actionCalls.Add(1)
			writeJSON(w, map[string]any{"$key": 100})
		default:
			http.NotFound(w, r)
		}
	})
	defer cleanup()

	record, err := rest.VMs.PowerOn(core.RefByName("web1"))
	if err != nil {
		t.Fatalf("PowerOn() error = %v", err)
	}
	if record.RecordStatus() != "running" {
		t.Errorf("status = %q", record.RecordStatus())
	}
	if got := actionCalls.Load(); got != 0 {
		t.Errorf("already-running VM should not submit an action, got %d calls", got)
	}
}

func TestVMRemoveRunningWithoutForce(t *testing.T) {
	var deleteCalls atomic.Int32
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v4/vms":
			writeJSON(w, []map[string]any{{"$key": 3, "name": "web1", "status": "running"}})
		case r.Method == http.MethodDelete:
			deleteCalls.Add(1)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	defer cleanup()

	_, err := rest.VMs.Remove(core.RefByName("web1"), false)
	if err == nil {
		t.Fatal("removing a running VM without force should fail")
	}
	var conflictErr *core.ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflictErr.Cause != core.CausePowerState {
		t.Errorf("cause = %v", conflictErr.Cause)
	}
	if got := deleteCalls.Load(); got != 0 {
		t.Errorf("no DELETE should be issued, got %d", got)
	}
}

func TestResolverGlob(t *testing.T) {
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		// Glob narrows server-side with a ct prefilter on the literal run
		if filter := r.URL.Query().Get("filter"); !strings.Contains(filter, "ct") {
			t.Errorf("filter = %q", filter)
		}
		writeJSON(w, []map[string]any{
			{"$key": 1, "name": "Web1", "status": "running"},
			{"$key": 2, "name": "Webinar", "status": "running"},
			{"$key": 3, "name": "OldWeb", "status": "stopped"},
		})
	})
	defer cleanup()

	matches, err := core.Resolve(rest.GetCtx(), rest.VMs, core.RefByName("Web*"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("glob matched %d rows, want 2", len(matches))
	}
	keys := matches.Keys()
	if keys[0] != 1 || keys[1] != 2 {
		t.Errorf("matched keys = %v", keys)
	}
}

func TestSystemVersionCached(t *testing.T) {
	var settingsCalls atomic.Int32
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/settings" {
			http.NotFound(w, r)
			return
		}
		settingsCalls.Add(1)
		writeJSON(w, []map[string]any{{"$key": 1, "name": "version", "value": "4.13.1"}})
	})
	defer cleanup()

	ver, err := rest.SystemVersion(rest.GetCtx())
	if err != nil {
		t.Fatalf("SystemVersion() error = %v", err)
	}
	if ver != "4.13.1" {
		t.Errorf("version = %q", ver)
	}

	// Second read must come from the cache
	if _, err = rest.SystemVersion(rest.GetCtx()); err != nil {
		t.Fatal(err)
	}
	if got := settingsCalls.Load(); got != 1 {
		t.Errorf("settings fetched %d times, want 1", got)
	}
}

func TestSitesVersionGate(t *testing.T) {
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v4/settings" {
			writeJSON(w, []map[string]any{{"$key": 1, "name": "version", "value": "4.11.2"}})
			return
		}
		writeJSON(w, []map[string]any{})
	})
	defer cleanup()

	_, err := rest.Sites.List(nil)
	if err == nil {
		t.Fatal("sites should be rejected below version 4.12.0")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("error = %v", err)
	}
}

func TestResourceMapRegistration(t *testing.T) {
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer cleanup()

	for _, resourceType := range []string{"VM", "Tenant", "Network", "NodeStats", "Setting"} {
		if _, ok := rest.GetResourceMap()[resourceType]; !ok {
			t.Errorf("resource %q not registered", resourceType)
		}
	}
	if got := rest.VMs.GetResourcePath(); got != "vms" {
		t.Errorf("VMs path = %q", got)
	}
	if got := rest.Networks.GetResourcePath(); got != "vnets" {
		t.Errorf("Networks path = %q", got)
	}
}

func TestTypedVMGetAndCreate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v4/sys/tokens") {
			if r.Method == http.MethodPost {
				writeJSON(w, map[string]any{"$key": 1, "token": testToken})
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v4/vms":
			if got := r.URL.Query().Get("filter"); got != "name eq 'web1'" {
				t.Errorf("filter param = %q", got)
			}
			// ram arrives as a raw number even though some releases send strings
			writeJSON(w, []map[string]any{{
				"$key": 3, "name": "web1", "status": "running",
				"cpu_cores": 4, "ram": 4096, "machine": 17,
			}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v4/vms":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "web2" || body["ram"] != float64(2048) {
				t.Errorf("create body = %v", body)
			}
			if _, ok := body["cpu_cores"]; ok {
				t.Error("zero cpu_cores should be omitted from the body")
			}
			writeJSON(w, map[string]any{"$key": 8, "name": "web2", "ram": 2048, "status": "stopped"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	host, port := parseTestServerAddress(server.Listener.Addr().String())
	trest, err := NewTypedVergeRest(&core.VergeConfig{
		Host:     host,
		Port:     port,
		Username: "admin",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("NewTypedVergeRest() error = %v", err)
	}
	defer trest.Close()

	vm, err := trest.VMs.Get(&typed.VMSearchParams{Name: "web1"})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if vm.Key != 3 || vm.Name != "web1" || vm.Ram != 4096 || vm.Machine != 17 {
		t.Errorf("vm = %+v", vm)
	}

	created, err := trest.VMs.Create(&typed.VMRequestBody{Name: "web2", Ram: 2048})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Key != 8 || created.Status != "stopped" {
		t.Errorf("created = %+v", created)
	}
}

func TestSchemasFetchesOpenAPIDoc(t *testing.T) {
	var schemaCalls atomic.Int32
	rest, cleanup := newTestRest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v4/vms" && r.URL.Query().Get("format") == "openapi" {
			schemaCalls.Add(1)
			writeJSON(w, map[string]any{
				"openapi": "3.0.0",
				"info":    map[string]any{"title": "vms", "version": "1.0"},
				"paths":   map[string]any{},
			})
			return
		}
		http.NotFound(w, r)
	})
	defer cleanup()

	store := rest.Schemas()
	doc, err := store.Doc(context.Background(), "vms")
	if err != nil {
		t.Fatalf("Doc() error = %v", err)
	}
	if doc.Info == nil || doc.Info.Title != "vms" {
		t.Errorf("doc info = %+v", doc.Info)
	}
	if _, err := store.Doc(context.Background(), "/vms/"); err != nil {
		t.Fatalf("Doc() cached error = %v", err)
	}
	if got := schemaCalls.Load(); got != 1 {
		t.Errorf("schema fetched %d times, want 1", got)
	}
	if rest.Schemas() != store {
		t.Error("Schemas() should return the shared store")
	}
}
