package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

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

func TestTokenAuthenticatorAuthorize(t *testing.T) {
	var loginCalls int32

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v4/sys/tokens" && r.Method == http.MethodPost {
			atomic.AddInt32(&loginCalls, 1)
			var creds map[string]string
			if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			if creds["login"] != "admin" || creds["password"] != "secret" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			w.Header().Set(HeaderContentType, ContentTypeJSON)
			json.NewEncoder(w).Encode(map[string]any{"$key": 9, "token": "session-token-1"})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	host, port := parseTestServerAddress(server.Listener.Addr().String())
	auth := &TokenAuthenticator{
		Host:     host,
		Port:     port,
		Username: "admin",
		Password: "secret",
	}

	if err := auth.authorize(); err != nil {
		t.Fatalf("authorize() error = %v", err)
	}
	if auth.token != "session-token-1" {
		t.Errorf("token = %q", auth.token)
	}
	if atomic.LoadInt32(&loginCalls) != 1 {
		t.Errorf("login calls = %d", loginCalls)
	}

	headers := http.Header{}
	auth.setAuthHeader(&headers)
	if got := headers.Get(HeaderSessionToken); got != "session-token-1" {
		t.Errorf("session token header = %q", got)
	}
}

func TestTokenAuthenticatorTokenInNameField(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some releases return the token value in the row name
		w.Header().Set(HeaderContentType, ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]any{"$key": 9, "name": "legacy-token"})
	}))
	defer server.Close()

	host, port := parseTestServerAddress(server.Listener.Addr().String())
	auth := &TokenAuthenticator{Host: host, Port: port, Username: "admin", Password: "secret"}

	if err := auth.authorize(); err != nil {
		t.Fatalf("authorize() error = %v", err)
	}
	if auth.token != "legacy-token" {
		t.Errorf("token = %q", auth.token)
	}
}

func TestTokenAuthenticatorBadCredentials(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid login"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	host, port := parseTestServerAddress(server.Listener.Addr().String())
	auth := &TokenAuthenticator{Host: host, Port: port, Username: "admin", Password: "wrong"}

	err := auth.authorize()
	if err == nil {
		t.Fatal("authorize() should fail on 401")
	}
	if !IsAuthErr(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestTokenAuthenticatorRevoke(t *testing.T) {
	var deletedPath string

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	host, port := parseTestServerAddress(server.Listener.Addr().String())
	auth := &TokenAuthenticator{Host: host, Port: port, Username: "admin", Password: "secret"}
	auth.token = "session-token-1"
	auth.initialized = true

	if err := auth.revoke(); err != nil {
		t.Fatalf("revoke() error = %v", err)
	}
	if deletedPath != "/api/v4/sys/tokens/session-token-1" {
		t.Errorf("deleted path = %q", deletedPath)
	}
	if auth.token != "" {
		t.Error("token should be cleared after revoke")
	}

	// Revoking with no token is a no-op
	if err := auth.revoke(); err != nil {
		t.Errorf("second revoke() error = %v", err)
	}
}

func TestTokenAuthenticatorRevokeExpired(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	host, port := parseTestServerAddress(server.Listener.Addr().String())
	auth := &TokenAuthenticator{Host: host, Port: port, Username: "admin", Password: "secret"}
	auth.token = "stale-token"

	if err := auth.revoke(); err != nil {
		t.Errorf("revoking an expired token should not fail: %v", err)
	}
}

func TestApiTokenAuthenticator(t *testing.T) {
	auth := &ApiTokenAuthenticator{Host: "verge.local", Port: 443, Token: "long-lived"}

	if err := auth.authorize(); err != nil {
		t.Fatalf("authorize() error = %v", err)
	}
	headers := http.Header{}
	auth.setAuthHeader(&headers)
	if got := headers.Get(HeaderSessionToken); got != "long-lived" {
		t.Errorf("session token header = %q", got)
	}

	empty := &ApiTokenAuthenticator{Host: "verge.local", Port: 443}
	if err := empty.authorize(); err == nil {
		t.Error("empty api token should not authorize")
	}
}

func TestBasicAuthAuthenticator(t *testing.T) {
	auth := &BasicAuthAuthenticator{Host: "verge.local", Port: 443, Username: "admin", Password: "secret"}

	if err := auth.authorize(); err != nil {
		t.Fatalf("authorize() error = %v", err)
	}
	headers := http.Header{}
	auth.setAuthHeader(&headers)
	// "admin:secret" base64-encoded
	if got := headers.Get(HeaderAuthorization); got != "Basic YWRtaW46c2VjcmV0" {
		t.Errorf("authorization header = %q", got)
	}
}

func TestAuthenticatorEqual(t *testing.T) {
	a := &TokenAuthenticator{Host: "h", Port: 443, Username: "u", Password: "p"}
	b := &TokenAuthenticator{Host: "h", Port: 443, Username: "u", Password: "p"}
	c := &TokenAuthenticator{Host: "h", Port: 443, Username: "u", Password: "other"}

	if !a.equal(b) {
		t.Error("identical authenticators should be equal")
	}
	if a.equal(c) {
		t.Error("different passwords should not be equal")
	}
	if a.equal(&ApiTokenAuthenticator{Token: "t"}) {
		t.Error("different authenticator types should not be equal")
	}
}
