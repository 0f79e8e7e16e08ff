package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// FlexibleUnmarshal behaves like json.Unmarshal but tolerates numeric and
// boolean values arriving for string-typed struct fields, converting them to
// their string representation instead of failing. VergeOS answers several
// nominally-string fields (ram, cores, keys inside references) as raw numbers
// depending on the endpoint, so strict decoding is too brittle.
func FlexibleUnmarshal(data []byte, container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer")
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	coerced := coerceForTarget(raw, val.Elem().Type())
	normalized, err := json.Marshal(coerced)
	if err != nil {
		return err
	}
	return json.Unmarshal(normalized, container)
}

// coerceForTarget walks raw decoded JSON alongside the target type and
// stringifies scalars that are about to land in string fields.
func coerceForTarget(raw any, target reflect.Type) any {
	for target.Kind() == reflect.Ptr {
		target = target.Elem()
	}
	switch target.Kind() {
	case reflect.String:
		switch v := raw.(type) {
		case float64:
			return trimFloat(v)
		case bool:
			return fmt.Sprintf("%v", v)
		}
		return raw
	case reflect.Struct:
		rawMap, ok := raw.(map[string]any)
		if !ok {
			return raw
		}
		fieldsByTag := jsonFieldsByTag(target)
		out := make(map[string]any, len(rawMap))
		for key, value := range rawMap {
			if fieldType, ok := fieldsByTag[key]; ok {
				out[key] = coerceForTarget(value, fieldType)
			} else {
				out[key] = value
			}
		}
		return out
	case reflect.Slice, reflect.Array:
		rawSlice, ok := raw.([]any)
		if !ok {
			return raw
		}
		out := make([]any, len(rawSlice))
		for i, item := range rawSlice {
			out[i] = coerceForTarget(item, target.Elem())
		}
		return out
	case reflect.Map:
		rawMap, ok := raw.(map[string]any)
		if !ok {
			return raw
		}
		out := make(map[string]any, len(rawMap))
		for key, value := range rawMap {
			out[key] = coerceForTarget(value, target.Elem())
		}
		return out
	default:
		return raw
	}
}

// jsonFieldsByTag maps json tag names (or field names when untagged) to field types.
func jsonFieldsByTag(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous {
			embedded := field.Type
			for embedded.Kind() == reflect.Ptr {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				for tag, typ := range jsonFieldsByTag(embedded) {
					fields[tag] = typ
				}
				continue
			}
		}
		name := parseJSONTag(field)
		if name == "-" {
			continue
		}
		fields[name] = field.Type
	}
	return fields
}

// trimFloat renders whole floats without a trailing ".0".
func trimFloat(f float64) string {
	s := fmt.Sprintf("%v", f)
	return strings.TrimSuffix(s, ".0")
}
