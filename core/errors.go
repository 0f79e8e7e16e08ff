package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ApiError represents an error returned from an API request.
type ApiError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	hints      string
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("response body: %s", e.Body)
	}
	if e.hints == "" {
		return fmt.Sprintf(
			"%s request to %s returned status code %d"+
				", response body: %s", e.Method, e.URL, e.StatusCode, e.Body,
		)
	}
	return fmt.Sprintf(
		"%s request to %s returned status code %d"+
			", response body: %s\nResource details:\n%s", e.Method, e.URL, e.StatusCode, e.Body, e.hints,
	)
}

func IsApiError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr)
}

func IgnoreStatusCodes(err error, codes ...int) error {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return nil
		}
	}
	return err
}

func ExpectStatusCodes(err error, codes ...int) bool {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}

// NotFoundError indicates that a lookup which required exactly one match
// returned zero records.
type NotFoundError struct {
	Resource string
	Query    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource '%s' not found for params '%s'", e.Resource, e.Query)
}

func IsNotFoundErr(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

func IgnoreNotFound(val Record, err error) (Record, error) {
	if IsNotFoundErr(err) {
		return val, nil
	}
	return val, err
}

type TooManyRecordsError struct {
	ResourcePath string
	Params       Params
}

func (e *TooManyRecordsError) Error() string {
	return fmt.Sprintf("too many records found for resource '%s' with params '%v'", e.ResourcePath, e.Params)
}

func IsTooManyRecordsErr(err error) bool {
	var tooManyRecordsErr *TooManyRecordsError
	return errors.As(err, &tooManyRecordsErr)
}

// AuthError indicates missing or rejected credentials, or an expired
// session token that could not be refreshed.
type AuthError struct {
	Host    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication against %s failed: %s", e.Host, e.Message)
}

func IsAuthErr(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ValidationError indicates malformed caller input detected before any
// request was issued, or a request the server rejected as invalid.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Message)
}

func IsValidationErr(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ConflictCause is the semantic cause of a server-side conflict, recovered
// from the server's human-readable error message.
type ConflictCause string

const (
	CauseUnknown       ConflictCause = "unknown"
	CauseAlreadyExists ConflictCause = "already_exists"
	CauseInUse         ConflictCause = "in_use"
	CauseReferenced    ConflictCause = "referenced"
	CausePowerState    ConflictCause = "power_state"
	CauseOverlap       ConflictCause = "overlap"
)

// ConflictError indicates the server rejected a request because of a
// uniqueness or state precondition. ServerMessage is preserved verbatim.
type ConflictError struct {
	Resource      string
	Cause         ConflictCause
	ServerMessage string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on '%s' (%s): %s", e.Resource, e.Cause, e.ServerMessage)
}

func IsConflictErr(err error) bool {
	var cErr *ConflictError
	return errors.As(err, &cErr)
}

// WaitTimeoutError indicates a poll-until-state loop hit its deadline before
// the target condition became visible. It is distinct from the action itself
// failing.
type WaitTimeoutError struct {
	Resource string
	Waited   time.Duration
	Timeout  time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting on '%s' (limit %v)", e.Waited, e.Resource, e.Timeout)
}

func IsWaitTimeoutErr(err error) bool {
	var wErr *WaitTimeoutError
	return errors.As(err, &wErr)
}

// conflictPattern maps a substring of a server error message to a semantic
// cause. Endpoint may be empty to match any endpoint. All message sniffing
// lives in this one table: it is a compatibility shim for an API that has no
// structured error codes, and wording changes on the server side will break
// it. Do not add per-operation regexes elsewhere.
type conflictPattern struct {
	endpoint string
	substr   string
	cause    ConflictCause
}

var conflictPatterns = []conflictPattern{
	{"", "already exists", CauseAlreadyExists},
	{"", "duplicate", CauseAlreadyExists},
	{"", "in use", CauseInUse},
	{"", "is referencing", CauseReferenced},
	{"", "referenced by", CauseReferenced},
	{"", "must be powered off", CausePowerState},
	{"", "must be stopped", CausePowerState},
	{"", "is running", CausePowerState},
	{"vnets", "overlap", CauseOverlap},
	{"tenant_storage", "insufficient", CauseInUse},
}

// classifyConflict scans the conflict table for a matching (endpoint,
// substring) pair. Matching is case-insensitive on the message.
func classifyConflict(endpoint, message string) ConflictCause {
	lowered := strings.ToLower(message)
	for _, p := range conflictPatterns {
		if p.endpoint != "" && p.endpoint != endpoint {
			continue
		}
		if strings.Contains(lowered, p.substr) {
			return p.cause
		}
	}
	return CauseUnknown
}

// classifyApiError upgrades a raw ApiError to the most specific error kind
// the status code and message allow. The original ApiError remains wrapped
// so status-code helpers keep working.
func classifyApiError(endpoint string, apiErr *ApiError) error {
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", &AuthError{Host: apiErr.URL, Message: apiErr.Body}, apiErr)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if cause := classifyConflict(endpoint, apiErr.Body); cause != CauseUnknown {
			return fmt.Errorf("%w: %w", &ConflictError{Resource: endpoint, Cause: cause, ServerMessage: apiErr.Body}, apiErr)
		}
		return fmt.Errorf("%w: %w", &ValidationError{Message: apiErr.Body}, apiErr)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", &ConflictError{
			Resource:      endpoint,
			Cause:         classifyConflict(endpoint, apiErr.Body),
			ServerMessage: apiErr.Body,
		}, apiErr)
	}
	return apiErr
}
