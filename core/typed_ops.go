package core

import (
	"context"
)

// Generic bridges between typed resources and the untyped record layer.
// Each converts a tagged request struct to Params, runs the untyped
// operation, and fills the response struct from the returned record.

// TypedGet fetches a single row matching the search struct. The struct
// fields are rendered into the "filter" query parameter so the server does
// the narrowing.
func TypedGet[R any](ctx context.Context, e *TypedVergeResource, searchParams any) (*R, error) {
	params, err := NewFilterParamsFromStruct(searchParams)
	if err != nil {
		return nil, err
	}
	record, err := e.getUntypedVergeResource().GetWithContext(ctx, params)
	if err != nil {
		return nil, err
	}
	return fillTyped[R](record)
}

// TypedGetByKey fetches a single row by primary key.
func TypedGetByKey[R any](ctx context.Context, e *TypedVergeResource, key any) (*R, error) {
	record, err := e.getUntypedVergeResource().GetByKeyWithContext(ctx, key)
	if err != nil {
		return nil, err
	}
	return fillTyped[R](record)
}

// TypedList fetches all rows matching the search struct, filtered the same
// way TypedGet filters.
func TypedList[R any](ctx context.Context, e *TypedVergeResource, searchParams any) ([]*R, error) {
	params, err := NewFilterParamsFromStruct(searchParams)
	if err != nil {
		return nil, err
	}
	recordSet, err := e.getUntypedVergeResource().ListWithContext(ctx, params)
	if err != nil {
		return nil, err
	}
	var response []*R
	if err := recordSet.Fill(&response); err != nil {
		return nil, err
	}
	return response, nil
}

// TypedCreate creates a row from the request struct.
func TypedCreate[R any](ctx context.Context, e *TypedVergeResource, body any) (*R, error) {
	params, err := NewParamsFromStruct(body)
	if err != nil {
		return nil, err
	}
	record, err := e.getUntypedVergeResource().CreateWithContext(ctx, params)
	if err != nil {
		return nil, err
	}
	return fillTyped[R](record)
}

// TypedUpdate partially updates a row by key from the request struct. Zero
// fields are left out of the body so the server keeps current values.
func TypedUpdate[R any](ctx context.Context, e *TypedVergeResource, key any, body any) (*R, error) {
	params, err := NewParamsFromStruct(body)
	if err != nil {
		return nil, err
	}
	record, err := e.getUntypedVergeResource().UpdateWithContext(ctx, key, params)
	if err != nil {
		return nil, err
	}
	return fillTyped[R](record)
}

// TypedDelete deletes a row by key.
func TypedDelete(ctx context.Context, e *TypedVergeResource, key any) error {
	_, err := e.getUntypedVergeResource().DeleteByKeyWithContext(ctx, key, nil, nil)
	return err
}

func fillTyped[R any](record Record) (*R, error) {
	var response R
	if err := record.Fill(&response); err != nil {
		return nil, err
	}
	return &response, nil
}
