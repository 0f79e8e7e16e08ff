package core

import (
	"context"
	"fmt"
)

// ResourceReference identifies one or more rows of a table by whichever
// handle the caller has: a numeric key, an exact name, a glob pattern over
// names, or an already-fetched Record. Exactly one field should be set.
type ResourceReference struct {
	Key    int64  // row key, when known
	Name   string // exact name or glob pattern ("Web*" matches by glob)
	Record Record // previously fetched row; used as-is without a round trip
}

// RefByKey builds a reference from a row key.
func RefByKey(key int64) ResourceReference {
	return ResourceReference{Key: key}
}

// RefByName builds a reference from an exact name or glob pattern.
func RefByName(name string) ResourceReference {
	return ResourceReference{Name: name}
}

// RefByRecord builds a reference from an already-fetched row.
func RefByRecord(record Record) ResourceReference {
	return ResourceReference{Record: record}
}

func (ref ResourceReference) empty() bool {
	return ref.Key == 0 && ref.Name == "" && ref.Record == nil
}

// Resolve expands the reference into the matching rows of the resource.
// A key or Record reference resolves to exactly one row; a name reference
// resolves to all rows whose name matches (glob patterns allowed). Glob
// patterns are narrowed server-side with a "ct" prefilter on the longest
// literal run before matching client-side.
func Resolve(ctx context.Context, r VergeResourceAPIWithContext, ref ResourceReference) (RecordSet, error) {
	switch {
	case ref.Record != nil:
		return RecordSet{ref.Record}, nil
	case ref.Key != 0:
		record, err := r.GetByKeyWithContext(ctx, ref.Key)
		if err != nil {
			return nil, err
		}
		return RecordSet{record}, nil
	case ref.Name != "":
		if !HasGlob(ref.Name) {
			params := Params{}
			NewFilter().Eq("name", ref.Name).ApplyTo(params)
			return r.ListWithContext(ctx, params)
		}
		params := Params{}
		if literal := globPrefilter(ref.Name); literal != "" {
			NewFilter().Ct("name", literal).ApplyTo(params)
		}
		candidates, err := r.ListWithContext(ctx, params)
		if err != nil {
			return nil, err
		}
		return FilterByGlob(candidates, "name", ref.Name), nil
	default:
		return nil, &ValidationError{Field: "reference", Message: "empty resource reference"}
	}
}

// ResolveOne expands the reference and requires exactly one match, returning
// NotFoundError for zero matches and TooManyRecordsError for several.
func ResolveOne(ctx context.Context, r VergeResourceAPIWithContext, ref ResourceReference) (Record, error) {
	matches, err := Resolve(ctx, r, ref)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{
			Resource: r.GetResourcePath(),
			Query:    fmt.Sprintf("reference %+v", ref),
		}
	case 1:
		return matches[0], nil
	default:
		return nil, &TooManyRecordsError{
			ResourcePath: r.GetResourcePath(),
			Params:       Params{"reference": ref.Name},
		}
	}
}

// ResolveKey expands the reference to the single matching row's key.
func ResolveKey(ctx context.Context, r VergeResourceAPIWithContext, ref ResourceReference) (int64, error) {
	if ref.Key != 0 {
		return ref.Key, nil
	}
	record, err := ResolveOne(ctx, r, ref)
	if err != nil {
		return 0, err
	}
	return record.RecordKey(), nil
}
