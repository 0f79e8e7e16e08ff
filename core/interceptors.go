package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

var logLevel string

func init() {
	logLevel = strings.ToLower(os.Getenv("VERGE_LOG"))
}

// ######################################################
//
//	REQUEST/RESPONSE INTERCEPTORS
//
// ######################################################

// BeforeRequest No op in current implementation. You have to shadow this method on a particular
// VergeResource, IOW declare the same method with the same signature for VMs or Tenants etc.
func (e *VergeResource) BeforeRequest(_ context.Context, r *http.Request, verb, url string, body io.Reader) error {
	return nil
}

// AfterRequest No op in current implementation. You have to shadow this method on a particular
// VergeResource, IOW declare the same method with the same signature for VMs or Tenants etc.
func (e *VergeResource) AfterRequest(_ context.Context, response Renderable) (Renderable, error) {
	return response, nil
}

// doBeforeRequest Do not override this method in VergeResource implementations. For internal use only
func (e *VergeResource) doBeforeRequest(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error {
	var err error
	session := e.Session()
	config := session.GetConfig()
	resourceType := e.GetResourceType()
	resourceCaller, ok := e.Rest.GetResourceMap()[resourceType]
	if !ok {
		panic(fmt.Sprintf("resource not found in resourceMap for %s", resourceType))
	}
	if logLevel != "" {
		beforeRequestLog(verb, url, body)
	}
	if interceptor, ok := resourceCaller.(RequestInterceptor); ok {
		if err = interceptor.BeforeRequest(ctx, r, verb, url, body); err != nil {
			return err
		}
	}
	// User-defined callback
	if config.BeforeRequestFn != nil {
		return config.BeforeRequestFn(ctx, r, verb, url, body)
	}
	return nil
}

// doAfterRequest Do not override this method in VergeResource implementations. For internal use only
func (e *VergeResource) doAfterRequest(ctx context.Context, response Renderable) (Renderable, error) {
	var err error
	session := e.Session()
	config := session.GetConfig()
	resourceType := e.GetResourceType()
	isDummyResource := resourceType == "Dummy"
	resourceCaller, ok := e.Rest.GetResourceMap()[resourceType]
	if !ok {
		panic(fmt.Sprintf("resource not found in resourceMap for %s", e.GetResourceType()))
	}
	if !isDummyResource {
		// Attach @resourceType so resource hooks and user AfterRequestFn can rely on it
		// for formatting/logging/branching.
		if err = setResourceKey(response, resourceType); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		afterRequestLog(response)
	}
	if interceptor, ok := resourceCaller.(RequestInterceptor); ok {
		response, err = interceptor.AfterRequest(ctx, response)
		if err != nil {
			return nil, err
		}
	}
	// User-defined callback
	if config.AfterRequestFn != nil {
		response, err = config.AfterRequestFn(ctx, response)
		if err != nil {
			return nil, err
		}
	}
	switch response.(type) {
	case Record, RecordSet:
	default:
		return nil, fmt.Errorf("unsupported type %T for result", response)
	}
	return response, nil
}

// ######################################################
//
//	REQUEST/RESPONSE LOGGING
//
// ######################################################

// beforeRequestLog logs HTTP request details before sending the request.
// In debug mode, it includes the request body (if present).
// In info mode, it only logs the HTTP method and URL.
func beforeRequestLog(verb, url string, body io.Reader) {
	requestInfo := fmt.Sprintf("http request start: [%s] %s", verb, url)
	var bodyMsg string

	// In debug mode, read and format the request body
	if body != nil && logLevel == "debug" {
		bodyBytes, err := io.ReadAll(body)
		if err != nil {
			log.Printf("ERROR: failed to read request body: %v", err)
			return
		}

		trimmed := bytes.TrimSpace(bodyBytes)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			var compact bytes.Buffer
			if err := json.Compact(&compact, trimmed); err == nil {
				bodyMsg = compact.String()
			} else {
				bodyMsg = string(trimmed)
			}
		}
	}

	if bodyMsg == "" {
		log.Printf("INFO: %s", requestInfo)
	} else {
		log.Printf("DEBUG: %s | body: %s", requestInfo, bodyMsg)
	}
}

// afterRequestLog logs HTTP response details after receiving the response.
// In debug mode, it pretty-prints the full response data using PrettyJson.
// In info mode, it only logs a summary (record count, resource type, etc.).
func afterRequestLog(response Renderable) {
	if logLevel == "debug" {
		afterRequestLogDebug(response)
	} else {
		afterRequestLogInfo(response)
	}
}

// afterRequestLogInfo logs a summary of the response (info level).
func afterRequestLogInfo(response Renderable) {
	var responseStr string

	switch resp := response.(type) {
	case Record:
		if resourceType, ok := resp[ResourceTypeKey].(string); ok && resourceType != "" {
			responseStr = fmt.Sprintf("Record of type: %s", resourceType)
		} else {
			responseStr = "Record received"
		}
	case RecordSet:
		count := len(resp)
		if count > 0 {
			firstRecord := resp[0]
			if resourceType, ok := firstRecord[ResourceTypeKey].(string); ok && resourceType != "" {
				responseStr = fmt.Sprintf("RecordSet with %d record(s) of type: %s", count, resourceType)
			} else {
				responseStr = fmt.Sprintf("RecordSet with %d record(s)", count)
			}
		} else {
			responseStr = "RecordSet with 0 record(s)"
		}
	default:
		responseStr = "Response received"
	}

	log.Printf("INFO: response | %s", responseStr)
}

// afterRequestLogDebug logs the full response data (debug level).
func afterRequestLogDebug(response Renderable) {
	var header string
	var body string

	switch resp := response.(type) {
	case Record:
		header = "response | Record received"
		body = resp.PrettyJson("  ")
	case RecordSet:
		header = fmt.Sprintf("response | RecordSet with %d record(s)", len(resp))
		body = resp.PrettyJson("  ")
	default:
		header = "response | Response received"
		body = fmt.Sprintf("%v", response)
	}

	log.Printf("DEBUG: %s\n%s", header, body)
}
