/*
Package verge_client provides a typed and convenient interface to interact with the VergeOS REST API.

It wraps raw HTTP operations in a structured API, exposing high-level methods to manage VergeOS
resources like VMs, tenants, virtual networks, snapshots, and more. Each table endpoint is available
as a sub-client that supports common CRUD operations (List, Get, GetByKey, Create, Update, Delete,
etc.) plus the action verbs of its companion _actions table.

The main entry point is the UntypedVergeRest client (or TypedVergeRest for struct-typed bodies),
initialized from a VergeConfig configuration struct. The configuration allows customization of
connection parameters, credentials (username/password or API token), SSL behavior, request timeouts,
and request/response hooks.
*/
package verge_client
