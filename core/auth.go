package core

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var authenticators []Authenticator

type Authenticator interface {
	authorize() error
	setAuthHeader(headers *http.Header)
	equal(other Authenticator) bool
	setInitialized(bool)
}

// tokenRevoker is implemented by authenticators holding a server-side session
// that should be torn down when the client closes.
type tokenRevoker interface {
	revoke() error
}

// createAuthenticator creates a new Authenticator instance based on the provided VergeConfig.
// Each session gets its own authenticator instance to avoid global state issues.
func createAuthenticator(config *VergeConfig) (Authenticator, error) {
	var authenticator Authenticator

	// Priority: ApiToken > BasicAuth > session token
	if config.ApiToken != "" {
		authenticator = &ApiTokenAuthenticator{
			Host:      config.Host,
			Port:      config.Port,
			SslVerify: config.SslVerify,
			Token:     config.ApiToken,
		}
	} else if config.UseBasicAuth && config.Username != "" && config.Password != "" {
		authenticator = &BasicAuthAuthenticator{
			Host:      config.Host,
			Port:      config.Port,
			SslVerify: config.SslVerify,
			Username:  config.Username,
			Password:  config.Password,
		}
	} else if config.Username != "" && config.Password != "" {
		authenticator = &TokenAuthenticator{
			Host:      config.Host,
			Port:      config.Port,
			SslVerify: config.SslVerify,
			Username:  config.Username,
			Password:  config.Password,
			ApiPrefix: config.ApiPrefix,
		}
	}
	if authenticator != nil {
		for _, existingAuthenticator := range authenticators {
			if existingAuthenticator.equal(authenticator) {
				return existingAuthenticator, nil
			}
		}
		if err := authenticator.authorize(); err != nil {
			return nil, err
		}
		authenticators = append(authenticators, authenticator)
		return authenticator, nil
	}

	panic("createAuthenticator: neither username/password nor apiToken are provided")
}

// TokenAuthenticator logs in with username/password and carries the returned
// session token on every request. The token is acquired by creating a row in
// the sys/tokens table and revoked by deleting it.
type TokenAuthenticator struct {
	Host        string
	Port        uint64
	SslVerify   bool
	Username    string
	Password    string
	ApiPrefix   string
	token       string
	initialized bool
}

func (auth *TokenAuthenticator) httpClient() *http.Client {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !auth.SslVerify},
	}
	return &http.Client{
		Transport: tr,
		Timeout:   20 * time.Second,
	}
}

func (auth *TokenAuthenticator) tokensURL(suffix string) string {
	prefix := auth.ApiPrefix
	if prefix == "" {
		prefix = ApiPrefix
	}
	u := url.URL{
		Scheme: "https",
		Host:   auth.Host + ":" + strconv.FormatUint(auth.Port, 10),
		Path:   prefix + "/sys/tokens" + suffix,
	}
	return u.String()
}

func (auth *TokenAuthenticator) authorize() error {
	client := auth.httpClient()
	body, err := json.Marshal(map[string]string{
		"login":    auth.Username,
		"password": auth.Password,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, auth.tokensURL(""), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set(HeaderContentType, ContentTypeJSON)

	resp, err := client.Do(req)
	if err != nil {
		return &AuthError{Host: auth.Host, Message: err.Error()}
	}
	defer resp.Body.Close()
	if err = validateResponse(req, resp); err != nil {
		return err
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var tokenRow struct {
		Key   any    `json:"$key"`
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	if err = json.Unmarshal(raw, &tokenRow); err != nil {
		return err
	}
	token := tokenRow.Token
	if token == "" {
		// Some releases return the token value in the row name.
		token = tokenRow.Name
	}
	if token == "" {
		return &AuthError{Host: auth.Host, Message: "login response carried no session token"}
	}
	auth.token = token
	auth.setInitialized(true)
	return nil
}

// revoke deletes the session token row, invalidating the token server-side.
func (auth *TokenAuthenticator) revoke() error {
	if auth.token == "" {
		return nil
	}
	req, err := http.NewRequest(http.MethodDelete, auth.tokensURL("/"+auth.token), nil)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderSessionToken, auth.token)
	resp, err := auth.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	auth.token = ""
	auth.initialized = false
	// A token that already expired is fine.
	return IgnoreStatusCodes(validateResponse(req, resp), http.StatusUnauthorized, http.StatusNotFound)
}

func (auth *TokenAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Set(HeaderSessionToken, auth.token)
}

func (auth *TokenAuthenticator) equal(other Authenticator) bool {
	otherAuth, ok := other.(*TokenAuthenticator)
	if !ok {
		return false
	}
	return auth.Username == otherAuth.Username &&
		auth.Password == otherAuth.Password &&
		auth.Host == otherAuth.Host &&
		auth.Port == otherAuth.Port &&
		auth.SslVerify == otherAuth.SslVerify
}

func (auth *TokenAuthenticator) setInitialized(state bool) {
	auth.initialized = state
}

// ApiTokenAuthenticator carries a pre-provisioned long-lived API token.
type ApiTokenAuthenticator struct {
	Host      string
	Port      uint64
	SslVerify bool
	Token     string
}

func (auth *ApiTokenAuthenticator) authorize() error {
	if auth.Token == "" {
		return fmt.Errorf("api token cannot be empty")
	}
	return nil
}

func (auth *ApiTokenAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Set(HeaderSessionToken, auth.Token)
}

func (auth *ApiTokenAuthenticator) equal(other Authenticator) bool {
	otherAuth, ok := other.(*ApiTokenAuthenticator)
	if !ok {
		return false
	}
	return auth.Token == otherAuth.Token &&
		auth.Host == otherAuth.Host &&
		auth.Port == otherAuth.Port &&
		auth.SslVerify == otherAuth.SslVerify
}

func (auth *ApiTokenAuthenticator) setInitialized(_ bool) {
	// No-op
}

// BasicAuthAuthenticator sends HTTP Basic credentials on every request
// instead of holding a server-side session.
type BasicAuthAuthenticator struct {
	Host        string
	Port        uint64
	SslVerify   bool
	Username    string
	Password    string
	encodedAuth string // Cached Base64-encoded credentials
}

func (auth *BasicAuthAuthenticator) authorize() error {
	// Pre-compute and cache the credentials; called once during setup.
	authStr := auth.Username + ":" + auth.Password
	auth.encodedAuth = base64.StdEncoding.EncodeToString([]byte(authStr))
	return nil
}

func (auth *BasicAuthAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Set(HeaderAuthorization, AuthTypeBasic+" "+auth.encodedAuth)
}

func (auth *BasicAuthAuthenticator) equal(other Authenticator) bool {
	otherAuth, ok := other.(*BasicAuthAuthenticator)
	if !ok {
		return false
	}
	return auth.Username == otherAuth.Username &&
		auth.Password == otherAuth.Password &&
		auth.Host == otherAuth.Host &&
		auth.Port == otherAuth.Port &&
		auth.SslVerify == otherAuth.SslVerify
}

func (auth *BasicAuthAuthenticator) setInitialized(_ bool) {
	// No-op for Basic Auth
}
