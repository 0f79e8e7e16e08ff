package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"
)

// VergeConfig represents the configuration required to create a VergeOS session.
type VergeConfig struct {
	Host         string         // The hostname or IP address of the VergeOS system.
	Port         uint64         // The port to connect to. Defaults to 443.
	Username     string         // The username for authentication (used with Password).
	Password     string         // The password for authentication (used with Username).
	ApiToken     string         // Optional long-lived API token (alternative to Username/Password).
	UseBasicAuth bool           // If true, send HTTP Basic Authentication on every request instead of acquiring a session token.
	SslVerify    bool           // Whether to verify SSL certificates. VergeOS systems commonly run self-signed.
	RespectProxy bool           // Whether to respect proxy environment variables (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
	Timeout      *time.Duration // HTTP client timeout. If nil, a default is applied by validators.

	MaxConnections int    // Maximum number of concurrent HTTP connections.
	UserAgent      string // Optional custom User-Agent header. If empty, a default is applied.
	ApiPrefix      string // API path prefix. Defaults to "api/v4".

	// Context is an optional external context for controlling HTTP request lifecycle.
	// When provided, it is used as the parent context for all HTTP requests made by the client.
	Context context.Context

	// BeforeRequestFn is an optional hook executed before an API request is sent.
	// Returning an error aborts the request.
	BeforeRequestFn func(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error

	// AfterRequestFn is an optional hook executed after a response is decoded,
	// allowing post-processing or logging. The returned Renderable replaces
	// the decoded response.
	AfterRequestFn func(ctx context.Context, response Renderable) (Renderable, error)

	// FillFn optionally overrides the default function used to populate structs
	// from generic Record maps.
	FillFn func(r Record, container any) error
}

// VergeConfigFunc defines a function that can modify or validate a VergeConfig.
type VergeConfigFunc func(*VergeConfig) error

// Validate applies the given VergeConfigFunc validators to the config.
// Panics if any validator returns an error.
func (config *VergeConfig) Validate(validators ...VergeConfigFunc) {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			panic(err)
		}
	}
}

// WithTimeout returns a VergeConfigFunc that sets a default timeout if none is provided.
func WithTimeout(timeout time.Duration) VergeConfigFunc {
	return func(config *VergeConfig) error {
		if config.Timeout == nil {
			config.Timeout = &timeout
		}
		return nil
	}
}

// WithMaxConnections returns a VergeConfigFunc that sets the maximum number of
// connections if not explicitly provided.
func WithMaxConnections(maxConnections int) VergeConfigFunc {
	return func(config *VergeConfig) error {
		if config.MaxConnections == 0 {
			config.MaxConnections = maxConnections
		}
		return nil
	}
}

// WithHost validates that the Host field is not empty.
func WithHost(config *VergeConfig) error {
	if config.Host == "" {
		return errors.New("host cannot be empty string")
	}
	return nil
}

// WithPort returns a VergeConfigFunc that sets a default port if none is provided.
func WithPort(defaultPort uint64) VergeConfigFunc {
	return func(config *VergeConfig) error {
		if config.Port == 0 {
			config.Port = defaultPort
		}
		return nil
	}
}

// WithAuth validates that either a username/password combination or an API token
// is provided for authentication. Returns an error if neither is set.
func WithAuth(config *VergeConfig) error {
	hasUserPass := config.Username != "" && config.Password != ""
	hasToken := config.ApiToken != ""
	if !hasUserPass && !hasToken {
		return errors.New("either username/password or api token must be provided")
	}
	if config.UseBasicAuth && !hasUserPass {
		return errors.New("basic auth requires username and password")
	}
	return nil
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
func WithUserAgent(config *VergeConfig) error {
	if config.UserAgent == "" {
		config.UserAgent = fmt.Sprintf(
			"%s,os:%s,arch:%s",
			fmt.Sprintf("verge-go-client-%s", ClientVersion()),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// WithApiPrefix sets the default API path prefix.
func WithApiPrefix(defaultPrefix string) VergeConfigFunc {
	return func(config *VergeConfig) error {
		if config.ApiPrefix == "" {
			config.ApiPrefix = defaultPrefix
		}
		return nil
	}
}

// WithFillFn installs a custom FillFn into the global fillFunc used by
// Record.Fill, globally overriding the default record-to-struct population
// logic.
func WithFillFn(config *VergeConfig) error {
	if config.FillFn != nil {
		fillFunc = config.FillFn
	}
	return nil
}
