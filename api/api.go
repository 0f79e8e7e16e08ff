// Package api exposes the OpenAPI v3 schemas the server publishes for each
// table endpoint via the ?format=openapi query. Schemas are fetched lazily
// and cached per endpoint for the lifetime of the SchemaStore.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/verge-io/go-verge-client/core"
)

// SchemaFetcher retrieves the raw schema document for one endpoint. The
// session type in core implements it.
type SchemaFetcher interface {
	FetchSchema(ctx context.Context, path string) (core.Renderable, error)
}

// SchemaStore caches parsed per-endpoint OpenAPI documents.
type SchemaStore struct {
	fetcher SchemaFetcher

	mu   sync.Mutex
	docs map[string]*openapi3.T
}

func NewSchemaStore(fetcher SchemaFetcher) *SchemaStore {
	return &SchemaStore{
		fetcher: fetcher,
		docs:    make(map[string]*openapi3.T),
	}
}

// Doc returns the parsed OpenAPI document for an endpoint, fetching and
// caching it on first use.
func (s *SchemaStore) Doc(ctx context.Context, resourcePath string) (*openapi3.T, error) {
	resourcePath = strings.Trim(resourcePath, "/")

	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[resourcePath]; ok {
		return doc, nil
	}

	raw, err := s.fetcher.FetchSchema(ctx, resourcePath)
	if err != nil {
		return nil, fmt.Errorf("fetch schema for %q: %w", resourcePath, err)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encode schema for %q: %w", resourcePath, err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema for %q: %w", resourcePath, err)
	}
	s.docs[resourcePath] = doc
	return doc, nil
}

// Resource returns the path item for an endpoint, accepting both slash
// conventions the server uses.
func (s *SchemaStore) Resource(ctx context.Context, resourcePath string) (*openapi3.PathItem, error) {
	doc, err := s.Doc(ctx, resourcePath)
	if err != nil {
		return nil, err
	}

	base := "/" + strings.Trim(resourcePath, "/")
	withSlash := base + "/"

	paths := doc.Paths.Map()
	if item := paths[withSlash]; item != nil {
		return item, nil
	}
	if item := paths[base]; item != nil {
		return item, nil
	}

	var available []string
	for path := range paths {
		available = append(available, path)
	}
	return nil, fmt.Errorf(
		"path %q not found in OpenAPI schema. Available paths:\n  - %s",
		resourcePath,
		strings.Join(available, "\n  - "),
	)
}

// PostRequestBodySchema extracts the request body schema from the POST
// operation. The request body must be defined with content type
// "application/json"; an empty schema is returned when it is missing.
func (s *SchemaStore) PostRequestBodySchema(ctx context.Context, resourcePath string) (*openapi3.SchemaRef, error) {
	d, err := s.Doc(ctx, resourcePath)
	if err != nil {
		return nil, err
	}
	resource, err := s.Resource(ctx, resourcePath)
	if err != nil {
		return nil, err
	}

	if resource == nil || resource.Post == nil || resource.Post.RequestBody == nil ||
		resource.Post.RequestBody.Value == nil {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{}}, nil
	}

	content := resource.Post.RequestBody.Value.Content[core.ContentTypeJSON]
	if content == nil {
		content = resource.Post.RequestBody.Value.Content["*/*"]
	}
	if content == nil || content.Schema == nil {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{}}, nil
	}

	final := resolveComposedSchema(d.Components, resolveAllRefs(d.Components, content.Schema))
	return &openapi3.SchemaRef{Value: final}, nil
}

// PutRequestBodySchema extracts the request body schema from the PUT
// operation, which the server uses for partial updates.
func (s *SchemaStore) PutRequestBodySchema(ctx context.Context, resourcePath string) (*openapi3.SchemaRef, error) {
	d, err := s.Doc(ctx, resourcePath)
	if err != nil {
		return nil, err
	}
	resource, err := s.Resource(ctx, resourcePath)
	if err != nil {
		return nil, err
	}

	if resource == nil || resource.Put == nil || resource.Put.RequestBody == nil ||
		resource.Put.RequestBody.Value == nil {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{}}, nil
	}

	content := resource.Put.RequestBody.Value.Content[core.ContentTypeJSON]
	if content == nil {
		content = resource.Put.RequestBody.Value.Content["*/*"]
	}
	if content == nil || content.Schema == nil {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{}}, nil
	}

	final := resolveComposedSchema(d.Components, resolveAllRefs(d.Components, content.Schema))
	return &openapi3.SchemaRef{Value: final}, nil
}

// GetItemSchema extracts the row schema from a GET 200 response. List
// endpoints answer with a flat array, single-row endpoints with an object;
// both forms resolve to the item schema.
func (s *SchemaStore) GetItemSchema(ctx context.Context, resourcePath string) (*openapi3.SchemaRef, error) {
	d, err := s.Doc(ctx, resourcePath)
	if err != nil {
		return nil, err
	}
	resource, err := s.Resource(ctx, resourcePath)
	if err != nil {
		return nil, err
	}

	if resource == nil || resource.Get == nil {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{}}, nil
	}

	resp := resource.Get.Responses.Status(200)
	if resp == nil || resp.Value == nil {
		return nil, fmt.Errorf("GET missing 200 response for resource %s", resourcePath)
	}

	content := resp.Value.Content[core.ContentTypeJSON]
	if content == nil || content.Schema == nil {
		return nil, fmt.Errorf("GET response missing or malformed schema")
	}

	rootSchema := resolveComposedSchema(d.Components, resolveAllRefs(d.Components, content.Schema))

	if rootSchema.Type != nil && len(*rootSchema.Type) > 0 && (*rootSchema.Type)[0] == "array" {
		if rootSchema.Items != nil {
			item := resolveComposedSchema(d.Components, resolveAllRefs(d.Components, rootSchema.Items))
			return &openapi3.SchemaRef{Value: item}, nil
		}
		return nil, fmt.Errorf("GET root array has no items schema")
	}

	return &openapi3.SchemaRef{Value: rootSchema}, nil
}

// QueryParametersGET extracts all query parameters from the GET operation.
func (s *SchemaStore) QueryParametersGET(ctx context.Context, resourcePath string) ([]*openapi3.Parameter, error) {
	resource, err := s.Resource(ctx, resourcePath)
	if err != nil {
		return nil, err
	}

	if resource == nil || resource.Get == nil {
		return []*openapi3.Parameter{}, nil
	}

	queryParams := make([]*openapi3.Parameter, 0)
	for _, paramRef := range resource.Get.Parameters {
		if paramRef == nil || paramRef.Value == nil {
			continue
		}
		if strings.EqualFold(paramRef.Value.In, "query") {
			queryParams = append(queryParams, paramRef.Value)
		}
	}

	return queryParams, nil
}

// FilterableFields returns the names of GET query parameters with primitive
// types, the fields usable in filter expressions.
func (s *SchemaStore) FilterableFields(ctx context.Context, resourcePath string) ([]string, error) {
	params, err := s.QueryParametersGET(ctx, resourcePath)
	if err != nil {
		return nil, err
	}

	var result []string
	for _, p := range params {
		if p == nil || p.Schema == nil || p.Schema.Value == nil {
			continue
		}
		schema := p.Schema.Value
		if !isStringOrInteger(schema) || schema.ReadOnly {
			continue
		}
		result = append(result, p.Name)
	}

	return result, nil
}

// isStringOrInteger returns true if the schema represents string or integer.
func isStringOrInteger(prop *openapi3.Schema) bool {
	if prop == nil || prop.Type == nil || len(*prop.Type) == 0 {
		return false
	}
	switch (*prop.Type)[0] {
	case openapi3.TypeString, openapi3.TypeInteger:
		return true
	default:
		return false
	}
}

func resolveComposedSchema(components *openapi3.Components, schema *openapi3.Schema) *openapi3.Schema {
	if schema == nil {
		return nil
	}
	if len(schema.AllOf) > 0 {
		merged := &openapi3.Schema{
			Properties:   map[string]*openapi3.SchemaRef{},
			Required:     []string{},
			Title:        schema.Title,
			Description:  schema.Description,
			ExternalDocs: schema.ExternalDocs,
		}

		for name, prop := range schema.Properties {
			merged.Properties[name] = prop
		}
		merged.Required = append(merged.Required, schema.Required...)
		if schema.Type != nil && len(*schema.Type) > 0 {
			merged.Type = schema.Type
		}

		for _, subRef := range schema.AllOf {
			sub := resolveComposedSchema(components, resolveAllRefs(components, subRef))
			if sub == nil {
				continue
			}
			for name, prop := range sub.Properties {
				merged.Properties[name] = prop
			}
			merged.Required = append(merged.Required, sub.Required...)
			if sub.Type != nil && len(*sub.Type) > 0 {
				merged.Type = sub.Type
			}
		}
		return merged
	}

	if schema.Type != nil && len(*schema.Type) > 0 {
		return schema
	}

	// Resolve oneOf or anyOf by picking the first resolvable schema with a type
	for _, refList := range [][]*openapi3.SchemaRef{schema.OneOf, schema.AnyOf} {
		for _, subRef := range refList {
			sub := resolveAllRefs(components, subRef)
			if sub != nil && sub.Type != nil && len(*sub.Type) > 0 {
				return sub
			}
		}
	}
	return schema
}

func resolveAllRefs(components *openapi3.Components, ref *openapi3.SchemaRef) *openapi3.Schema {
	seen := map[string]bool{}
	for ref != nil && ref.Ref != "" && !seen[ref.Ref] {
		seen[ref.Ref] = true
		if components == nil {
			break
		}
		parts := strings.Split(ref.Ref, "/")
		name := parts[len(parts)-1]
		ref = components.Schemas[name]
	}
	if ref == nil || ref.Value == nil {
		return &openapi3.Schema{}
	}
	return ref.Value
}
