package core

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type contextKey string

const (
	caller     contextKey = "@caller" // VergeResource caller object key
	maxRetries int        = 3
)

type RESTSession interface {
	Get(context.Context, string, Params, []http.Header) (Renderable, error)
	Post(context.Context, string, Params, []http.Header) (Renderable, error)
	Put(context.Context, string, Params, []http.Header) (Renderable, error)
	Delete(context.Context, string, Params, []http.Header) (Renderable, error)
	GetConfig() *VergeConfig
	GetAuthenticator() Authenticator
}

type VergeSession struct {
	config *VergeConfig
	client *http.Client
	auth   Authenticator
}

type VergeSessionMethod func(context.Context, string, Params, []http.Header) (Renderable, error)

func NewVergeSession(config *VergeConfig) (*VergeSession, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !config.SslVerify}
	transport.MaxConnsPerHost = config.MaxConnections
	transport.IdleConnTimeout = *config.Timeout
	if !config.RespectProxy {
		transport.Proxy = nil
	}
	client := &http.Client{Transport: transport}
	authenticator, err := createAuthenticator(config)
	if err != nil {
		return nil, err
	}
	session := &VergeSession{
		config: config,
		client: client,
		auth:   authenticator,
	}
	return session, nil
}

// Close revokes the server-side session token when the authenticator holds
// one, and releases idle connections.
func (s *VergeSession) Close() error {
	defer s.client.CloseIdleConnections()
	if revoker, ok := s.auth.(tokenRevoker); ok {
		return revoker.revoke()
	}
	return nil
}

func Request[T RecordUnion](
	ctx context.Context,
	r VergeResourceAPIWithContext,
	verb, path string,
	params, body Params,
) (T, error) {
	return RequestWithHeaders[T](ctx, r, verb, path, params, body, nil)
}

func RequestWithHeaders[T RecordUnion](
	ctx context.Context,
	r VergeResourceAPIWithContext,
	verb, path string,
	params, body Params,
	headers []http.Header,
) (T, error) {
	var (
		sessionMethod VergeSessionMethod
		query         string
		err           error
	)
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, caller, r)
	verb = strings.ToUpper(verb)
	session := r.Session()

	switch verb {
	case http.MethodGet:
		sessionMethod = session.Get
	case http.MethodPost:
		sessionMethod = session.Post
	case http.MethodPut:
		sessionMethod = session.Put
	case http.MethodDelete:
		sessionMethod = session.Delete
	default:
		return nil, fmt.Errorf("unknown verb: %s", verb)
	}
	if params != nil {
		query = params.ToQuery()
	}
	url, err := buildUrl(session, path, query)
	if err != nil {
		return nil, err
	}

	response, err := sessionMethod(ctx, url, body, headers)
	if err != nil {
		return nil, err
	}

	if typeMatch[Record](response) {
		// Some endpoints return a single record where a list is expected
		// (e.g. filtered queries resolving a single row). Normalize the
		// discrepancy by casting Record to RecordSet.
		var zero T
		if typeMatch[RecordSet](Renderable(zero)) {
			if !response.(Record).Empty() {
				response = RecordSet{response.(Record)}
			} else {
				response = RecordSet{}
			}
		}
	}

	resultVal, ok := response.(T)
	if !ok {
		return nil, fmt.Errorf(
			"unexpected response type for request to %s: got %T, expected %T "+
				"(consider converting the response to the expected type inside the doAfterRequest interceptor)",
			url,
			response,
			*new(T),
		)
	}
	return resultVal, nil
}

func (s *VergeSession) Get(ctx context.Context, url string, _ Params, headers []http.Header) (Renderable, error) {
	return doRequestWithRetries(ctx, s, http.MethodGet, url, nil, headers)
}

func (s *VergeSession) Post(ctx context.Context, url string, body Params, headers []http.Header) (Renderable, error) {
	return doRequestWithRetries(ctx, s, http.MethodPost, url, body, headers)
}

func (s *VergeSession) Put(ctx context.Context, url string, body Params, headers []http.Header) (Renderable, error) {
	return doRequestWithRetries(ctx, s, http.MethodPut, url, body, headers)
}

func (s *VergeSession) Delete(ctx context.Context, url string, body Params, headers []http.Header) (Renderable, error) {
	return doRequestWithRetries(ctx, s, http.MethodDelete, url, body, headers)
}

// FetchSchema retrieves the OpenAPI schema for one table endpoint using the
// ?format=openapi query the server understands.
func (s *VergeSession) FetchSchema(ctx context.Context, path string) (Renderable, error) {
	url, err := buildUrl(s, path, "format=openapi")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL for OpenAPI schema: %w", err)
	}
	headers := []http.Header{{
		HeaderAccept: []string{ContentTypeOpenAPI},
	}}
	return doRequest(ctx, s, http.MethodGet, url, nil, headers)
}

func (s *VergeSession) GetConfig() *VergeConfig {
	return s.config
}

func (s *VergeSession) GetAuthenticator() Authenticator {
	return s.auth
}

func consolidateHeaders(s RESTSession, customHeaders []http.Header) http.Header {
	finalHeaders := make(http.Header)

	// Apply custom headers first
	for _, header := range customHeaders {
		for key, values := range header {
			for _, value := range values {
				finalHeaders.Add(key, value)
			}
		}
	}

	// Set default headers only if not already provided
	if finalHeaders.Get(HeaderAccept) == "" {
		finalHeaders.Set(HeaderAccept, ContentTypeJSON)
	}

	if finalHeaders.Get(HeaderContentType) == "" {
		finalHeaders.Set(HeaderContentType, ContentTypeJSON)
	}

	if finalHeaders.Get(HeaderUserAgent) == "" {
		finalHeaders.Set(HeaderUserAgent, s.GetConfig().UserAgent)
	}

	return finalHeaders
}

func setupHeaders(s RESTSession, r *http.Request, headers http.Header) error {
	// Always set authentication headers
	s.GetAuthenticator().setAuthHeader(&r.Header)

	// Apply all consolidated headers in one pass
	for key, values := range headers {
		for _, value := range values {
			r.Header.Add(key, value)
		}
	}

	return nil
}

// doRequest creates and processes a new HTTP request using the context.
func doRequest(ctx context.Context, s *VergeSession, verb, url string, body Params, headers []http.Header) (Renderable, error) {
	var (
		resourceCaller    InterceptableVergeResourceAPI
		requestData       io.Reader
		beforeRequestData io.Reader
		err               error
	)
	originResource, resourceExist := ctx.Value(caller).(InterceptableVergeResourceAPI)
	if !resourceExist {
		resourceCaller = NewDummy(ctx, s)
	} else {
		resourceCaller = originResource
	}
	// Convert to full URI if needed.
	if url, err = pathToUrl(s, url); err != nil {
		return nil, err
	}

	finalHeaders := consolidateHeaders(s, headers)

	if body == nil {
		requestData = bytes.NewReader(nil)
	} else {
		if requestData, err = body.ToBody(); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, verb, url, requestData)
	if err != nil {
		return nil, err
	}
	// Prepare beforeRequestData for interceptors
	if body != nil {
		if beforeRequestData, err = body.ToBody(); err != nil {
			return nil, err
		}
	}
	if err = setupHeaders(s, req, finalHeaders); err != nil {
		return nil, err
	}

	// before request interceptor
	if err = resourceCaller.doBeforeRequest(ctx, req, verb, url, beforeRequestData); err != nil {
		return nil, err
	}
	response, responseErr := s.client.Do(req)

	if responseErr != nil {
		return nil, fmt.Errorf("failed to perform %s request to %s, error %v", verb, url, responseErr)
	}
	if err = validateResponse(req, response); err != nil {
		return nil, err
	}
	result, err := unmarshalToRecordUnion(response)
	if err != nil {
		return nil, err
	}
	// after request interceptor
	return resourceCaller.doAfterRequest(ctx, result)
}

// doRequestWithRetries attempts to perform an HTTP request using doRequest,
// retrying up to 3 times if the request fails with a 401/403 API error after
// re-authorizing. Non-retryable errors return immediately.
func doRequestWithRetries(ctx context.Context, s *VergeSession, verb, url string, body Params, headers []http.Header) (Renderable, error) {
	var (
		err    error
		result Renderable
	)
	for i := 0; i < maxRetries; i++ {
		result, err = doRequest(ctx, s, verb, url, body, headers)
		if err != nil {
			var apiErr *ApiError
			if errors.As(err, &apiErr) &&
				(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
				if authErr := s.auth.authorize(); authErr != nil {
					return nil, authErr
				}
				continue
			}
		}
		break
	}
	return result, err
}
