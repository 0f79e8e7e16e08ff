package core

// HTTP-related constants for REST operations
// These constants provide type-safe header names, content types, and auth types

// HTTP Header Names
const (
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderUserAgent     = "User-Agent"
	// HeaderSessionToken carries the VergeOS session token obtained from
	// the tokens endpoint. The header name predates the VergeOS rebrand.
	HeaderSessionToken = "x-yottabyte-token"
)

// HTTP Content Types
const (
	ContentTypeJSON        = "application/json"
	ContentTypeMsgpack     = "application/x-msgpack"
	ContentTypeOpenAPI     = "application/openapi+json"
	ContentTypeTextPlain   = "text/plain"
	ContentTypeOctetStream = "application/octet-stream"
)

// HTTP Authentication Types
const (
	AuthTypeBasic  = "Basic"
	AuthTypeBearer = "Bearer"
)

// KeyField is the primary-key field name used by every VergeOS collection.
const KeyField = "$key"

// ApiPrefix is the default API path prefix. All resource endpoints live
// under it, e.g. https://host/api/v4/vms.
const ApiPrefix = "api/v4"
