package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
)

// validateResponse checks the response for 2xx status codes. Non-2xx
// responses become an ApiError upgraded to the most specific error kind the
// status code and body allow (AuthError, ConflictError, ValidationError).
func validateResponse(request *http.Request, response *http.Response) error {
	requestURL := "<unknown URL>"
	method := "<unknown method>"
	if request != nil {
		if request.URL != nil {
			requestURL = request.URL.String()
		}
		method = request.Method
	}
	if response == nil {
		return &ApiError{
			Method:     method,
			URL:        requestURL,
			StatusCode: 0,
			Body:       "server unreachable: verify the host is correct and the network is accessible",
		}
	}
	if response.StatusCode >= 200 && response.StatusCode <= 299 {
		return nil
	}
	apiErr := &ApiError{
		Method:     method,
		URL:        requestURL,
		StatusCode: response.StatusCode,
		Body:       getResponseBodyAsStr(response),
	}
	return classifyApiError(endpointFromURL(requestURL), apiErr)
}

// endpointFromURL extracts the table endpoint from a request URL:
// https://host/api/v4/vms/3?fields=all -> "vms".
func endpointFromURL(rawURL string) string {
	parsed, err := urlpkg.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.Trim(parsed.Path, "/")
	segments := strings.Split(path, "/")
	// Skip the "api/vN" prefix when present.
	if len(segments) >= 3 && segments[0] == "api" {
		return segments[2]
	}
	if len(segments) > 0 {
		return segments[0]
	}
	return ""
}

// pathToUrl returns a full URI string based on the provided input.
// If the input string is already a full URI (i.e., contains a scheme like
// "https"), it is returned unchanged. Otherwise, the function constructs a
// full URI from the session's configuration, appending the input path (with
// optional query parameters) to the API prefix.
func pathToUrl(s RESTSession, input string) (string, error) {
	parsedURL, parseErr := urlpkg.Parse(input)
	if parseErr == nil && parsedURL.Scheme != "" {
		return input, nil // already a full URI
	}
	if !strings.HasPrefix(input, "/") {
		input = "/" + input
	}
	config := s.GetConfig()

	pathAndQuery, err := urlpkg.ParseRequestURI(input)
	if err != nil {
		return "", fmt.Errorf("invalid relative URL: %w", err)
	}
	joinedPath, err := urlpkg.JoinPath(config.ApiPrefix, strings.Trim(pathAndQuery.Path, "/"))
	if err != nil {
		return "", err
	}
	fullURL := &urlpkg.URL{
		Scheme:   "https",
		Host:     fmt.Sprintf("%s:%v", config.Host, config.Port),
		Path:     joinedPath,
		RawQuery: pathAndQuery.RawQuery,
	}
	return fullURL.String(), nil
}

func buildUrl(s RESTSession, path, query string) (string, error) {
	var err error
	config := s.GetConfig()
	if path, err = urlpkg.JoinPath(config.ApiPrefix, strings.Trim(path, "/")); err != nil {
		return "", err
	}
	url := urlpkg.URL{
		Scheme: "https",
		Host:   fmt.Sprintf("%s:%v", config.Host, config.Port),
		Path:   path,
	}
	if query != "" {
		url.RawQuery = query
	}
	return url.String(), nil
}

// getResponseBodyAsStr reads and returns the HTTP response body as a string.
// If the body contains valid JSON, it returns a pretty-printed version,
// otherwise the raw body. Consumes the response body.
func getResponseBodyAsStr(r *http.Response) string {
	var b bytes.Buffer
	if r == nil {
		return ""
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	if err = json.Indent(&b, body, "", "  "); err == nil {
		return b.String()
	}
	return string(body)
}

// sanitizeVersion truncates all segments of a system version above core (x.y.z)
func sanitizeVersion(version string) (string, bool) {
	segments := strings.Split(version, ".")
	truncated := len(segments) > 3
	if truncated {
		segments = segments[:3]
	}
	return strings.Join(segments, "."), truncated
}
