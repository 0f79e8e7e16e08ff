package core

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// toInt converts any supported numeric or string value to int64.
func toInt(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to int64: %w", v, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported type %T for int conversion", value)
	}
}

// ToInt converts any numeric type (or a decimal string) to int64.
func ToInt(value any) (int64, error) {
	return toInt(value)
}

// ToRecord converts a plain map into a Record.
func ToRecord(m map[string]any) Record {
	return Record(m)
}

// ToRecordSet converts a slice of plain maps into a RecordSet.
func ToRecordSet(ms []map[string]any) RecordSet {
	rs := make(RecordSet, len(ms))
	for i, m := range ms {
		rs[i] = Record(m)
	}
	return rs
}

// parseJSONTag returns the effective json key of a struct field:
// the first element of its json tag, or the field name when untagged.
func parseJSONTag(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return field.Name
	}
	return name
}

// isZeroValue reports whether v holds its type's zero value.
// Pointers, maps and slices count as zero when nil.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Map, reflect.Slice:
		return v.IsNil() || v.Len() == 0
	default:
		return v.IsZero()
	}
}

// structToMap converts a struct to map[string]any using json tags as keys.
// Zero-valued fields are skipped so callers get partial bodies for PUT updates.
func structToMap(obj any) map[string]any {
	result := make(map[string]any)
	if obj == nil {
		return result
	}
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return result
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return result
	}
	structFieldsToMap(val, result)
	return result
}

// structFieldsToMap walks the struct value directly so embedded structs with
// unexported type names still contribute their promoted exported fields.
func structFieldsToMap(val reflect.Value, result map[string]any) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)
		if field.Anonymous {
			embedded := fieldVal
			for embedded.Kind() == reflect.Ptr {
				if embedded.IsNil() {
					embedded = reflect.Value{}
					break
				}
				embedded = embedded.Elem()
			}
			if embedded.IsValid() && embedded.Kind() == reflect.Struct {
				structFieldsToMap(embedded, result)
			}
			continue
		}
		if !field.IsExported() {
			continue
		}
		name := parseJSONTag(field)
		if name == "-" {
			continue
		}
		if isZeroValue(fieldVal) {
			continue
		}
		result[name] = fieldVal.Interface()
	}
}

// convertMapToQuery builds a deterministic URL query string from Params.
// Keys are sorted so identical Params always produce identical URLs.
func convertMapToQuery(params Params) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	values := url.Values{}
	for _, key := range keys {
		values.Set(key, fmt.Sprintf("%v", params[key]))
	}
	return values.Encode()
}

// sanitizeEndpoint trims leading/trailing slashes from a resource path.
func sanitizeEndpoint(endpoint string) string {
	return strings.Trim(strings.TrimSpace(endpoint), "/")
}

// buildResourcePathWithKey joins a table endpoint with a row key:
// ("vms", 3) -> "vms/3".
func buildResourcePathWithKey(endpoint string, key any) string {
	return fmt.Sprintf("%s/%v", sanitizeEndpoint(endpoint), key)
}

// Must panics if err is non-nil, otherwise returns val.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
