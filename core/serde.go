package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ResourceTypeKey = "@resourceType"
	customRawKey    = "@raw" // used to store raw scalar values in Record
)

var empty = struct{}{}
var printableAttrs = map[string]struct{}{
	KeyField:       empty,
	"name":         empty,
	"description":  empty,
	"status":       empty,
	"machine":      empty,
	"machine_type": empty,
	"ram":          empty,
	"cores":        empty,
	"cpu_cores":    empty,
	"disksize":     empty,
	"tier":         empty,
	"network":      empty,
	"vnet":         empty,
	"node":         empty,
	"cluster":      empty,
	"owner":        empty,
	"enabled":      empty,
	"created":      empty,
	"modified":     empty,
}

type FillFunc func(Record, any) error

var fillFunc FillFunc = func(r Record, container any) error {
	dbByte, err := json.Marshal(r)
	if err != nil {
		return err
	}
	// FlexibleUnmarshal converts numbers to strings for string fields
	return FlexibleUnmarshal(dbByte, container)
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value parameters,
// used for constructing query strings or request bodies.
type Params map[string]any

// ToQuery serializes the Params into a URL-encoded query string.
// This is useful for GET requests where parameters are passed via the URL.
func (pr *Params) ToQuery() string {
	return convertMapToQuery(*pr)
}

// ToBody serializes the Params into a JSON-encoded io.Reader,
// suitable for use as the body of an HTTP POST or PUT request.
func (pr *Params) ToBody() (io.Reader, error) {
	buffer, err := json.Marshal(*pr)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// Update merges another Params map into the original Params.
// If a key already exists and `override` is true, its value is skipped.
// If a key doesn't exist, the key-value pair is added.
func (pr *Params) Update(other Params, override bool) {
	for key, value := range other {
		if _, exists := (*pr)[key]; exists && override {
			continue
		}
		(*pr)[key] = value
	}
}

// Without removes the specified keys from the Params map.
// This is useful when you want to exclude certain parameters before sending a request.
func (pr *Params) Without(keys ...string) {
	for _, key := range keys {
		delete(*pr, key)
	}
}

// FromStruct converts any struct to Params while maintaining the json tags as keys.
// This method uses reflection to directly extract struct fields and their json tags,
// avoiding the overhead of JSON marshaling/unmarshaling.
func (pr *Params) FromStruct(obj any) error {
	if obj == nil {
		return nil
	}
	structMap := structToMap(obj)
	for key, value := range structMap {
		(*pr)[key] = value
	}
	return nil
}

// NewParamsFromStruct creates a new Params map from any struct, respecting json tags.
//
// Special handling for RawData field:
// If the struct has a RawData field (type Params) with len > 0, the RawData map is
// returned directly instead of parsing the struct fields. This allows bypassing
// typed field parsing when custom query parameters are needed.
func NewParamsFromStruct(obj any) (Params, error) {
	params := make(Params)
	if obj == nil {
		return params, nil
	}

	if rawData, ok := rawDataBypass(obj); ok {
		return rawData, nil
	}

	err := params.FromStruct(obj)
	return params, err
}

// rawDataBypass extracts a non-empty RawData field of type Params, the
// escape hatch for callers who need custom query parameters.
func rawDataBypass(obj any) (Params, bool) {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, false
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, false
	}
	rawDataField := val.FieldByName("RawData")
	if rawDataField.IsValid() && rawDataField.Type() == reflect.TypeOf(Params{}) {
		rawData, ok := rawDataField.Interface().(Params)
		if ok && len(rawData) > 0 {
			return rawData, true
		}
	}
	return nil, false
}

// NewFilterParamsFromStruct renders a search struct into the "filter" query
// parameter: every non-zero tagged field becomes an eq predicate, joined
// with "and". Fields are ordered by name so identical structs always render
// the same expression. The RawData bypass of NewParamsFromStruct applies
// here too.
func NewFilterParamsFromStruct(obj any) (Params, error) {
	if rawData, ok := rawDataBypass(obj); ok {
		return rawData, nil
	}

	fields := make(Params)
	if err := fields.FromStruct(obj); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	filter := NewFilter()
	for _, key := range keys {
		filter.Eq(key, fields[key])
	}

	params := make(Params)
	filter.ApplyTo(params)
	return params, nil
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// getPrintableAttrs returns a slice of keys to be printed from the Record
func getPrintableAttrs(r Record) []string {
	var attrs []string
	for key := range r {
		if _, ok := printableAttrs[key]; ok {
			attrs = append(attrs, key)
		}
	}
	sort.Strings(attrs) // Sort to keep consistent order
	return attrs
}

// Renderable is an interface implemented by types that can render themselves
// into a human-readable string format, typically for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Filler is a generic interface for filling a struct or slice of structs.
type Filler interface {
	// Fill populates the given container with data from the implementing type.
	// The container can be a pointer to a struct (for Record),
	// or a pointer to a slice of structs (for RecordSet).
	Fill(container any) error
}

// DisplayableRecord combines rendering and data population capabilities.
// It is implemented by Record and RecordSet, allowing generic handling of
// different response shapes (single item or list).
type DisplayableRecord interface {
	Renderable
	Filler
}

// Record represents a single generic data object as a key-value map.
// It's commonly used to unmarshal a single JSON object from an API response.
// When a response is empty (e.g., 204 No Content), an empty Record{} is returned.
type Record map[string]any

// RecordSet represents a list of Record objects.
// It is typically used to represent responses containing multiple items.
type RecordSet []Record

// EmptyRecord represents an intentionally empty response, e.g. from DELETE.
type EmptyRecord map[string]any

func (er EmptyRecord) PrettyTable() string {
	return "<->"
}

func (er EmptyRecord) PrettyJson(_ ...string) string {
	return "{}"
}

func (er EmptyRecord) String() string {
	return er.PrettyTable()
}

// RecordUnion defines a union of supported record types for generic operations.
// It can be a single Record or a RecordSet.
type RecordUnion interface {
	Record | RecordSet
}

// Fill populates the exported fields of the given struct pointer using values
// from the Record. It uses JSON marshaling and unmarshaling to automatically
// map keys to struct fields based on their `json` tags and perform type
// conversions where needed.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	return fillFunc(r, container)
}

// RecordKey returns the entity key of the record as an int64.
// It looks up the "$key" field in the record map.
func (r Record) RecordKey() int64 {
	keyVal, ok := r[KeyField]
	if !ok {
		panic(fmt.Sprintf("record key not found in record %s", r.PrettyTable()))
	}
	intKeyVal, err := toInt(keyVal)
	if err != nil {
		panic(err)
	}
	return intKeyVal
}

// HasKey reports whether the record carries a "$key" field.
func (r Record) HasKey() bool {
	_, ok := r[KeyField]
	return ok
}

// RecordName returns the name of the record as a string.
// It looks up the "name" field in the record map.
func (r Record) RecordName() string {
	nameVal, ok := r["name"]
	if !ok {
		panic(fmt.Sprintf("record name not found in record %s", r.PrettyTable()))
	}
	return fmt.Sprintf("%v", nameVal)
}

// RecordStatus returns the wire status string of the record, or "" when the
// record carries no status field.
func (r Record) RecordStatus() string {
	statusVal, ok := r["status"]
	if !ok || statusVal == nil {
		return ""
	}
	return fmt.Sprintf("%v", statusVal)
}

// SetMissingValue If the key is not present in the Record, set it to the provided value
func (r Record) SetMissingValue(key string, value any) {
	if _, exists := r[key]; !exists {
		r[key] = value
	}
}

// PrettyTable prints a single Record as a table
func (r Record) PrettyTable() string {
	headers := []string{"attr", "value"}
	var rows [][]any
	var name string
	if resourceTyp, ok := r[ResourceTypeKey]; ok {
		name = resourceTyp.(string)
	}
	if len(r) == 0 {
		return "<>"
	}
	for _, key := range getPrintableAttrs(r) {
		if val, ok := r[key]; ok && val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}

	// Collect remaining attributes that are not in printableAttrs
	remainingAttrs := make(map[string]any)
	for key, value := range r {
		if _, ok := printableAttrs[key]; !ok {
			if key == ResourceTypeKey || value == nil {
				continue
			}
			remainingAttrs[key] = value
		}
	}
	if len(remainingAttrs) > 0 {
		remainingJSON, _ := json.Marshal(remainingAttrs)
		rows = append(rows, []any{"<<remaining attrs>>", string(remainingJSON)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	if name != "" {
		return fmt.Sprintf("%s:\n%s", name, t.Render("grid"))
	}
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(r, "", indent[0])
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

func (r Record) String() string {
	return r.PrettyTable()
}

// Fill populates the provided container slice with data from the RecordSet.
// The container must be a non-nil pointer to a slice of structs. Each Record
// in the RecordSet is individually marshaled into an element of the slice
// and appended to the resulting slice.
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}

	sliceVal := val.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}

	elemType := sliceVal.Type().Elem()
	isPtrElem := elemType.Kind() == reflect.Ptr

	var targetType reflect.Type
	if isPtrElem {
		if elemType.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be pointer to a struct")
		}
		targetType = elemType.Elem()
	} else {
		if elemType.Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be a struct")
		}
		targetType = elemType
	}

	for _, record := range rs {
		elemPtr := reflect.New(targetType)
		if err := record.Fill(elemPtr.Interface()); err != nil {
			return err
		}
		if isPtrElem {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
		}
	}
	return nil
}

// Keys returns the "$key" of every record in the set, in order.
func (rs RecordSet) Keys() []int64 {
	keys := make([]int64, 0, len(rs))
	for _, rec := range rs {
		keys = append(keys, rec.RecordKey())
	}
	return keys
}

// PrettyTable prints the full RecordSet by rendering each individual Record
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var out strings.Builder
	out.WriteString("[\n")
	for i, record := range rs {
		out.WriteString(record.PrettyTable())
		if i < len(rs)-1 {
			out.WriteString("\n\n") // separate entries with a blank line
		}
	}
	out.WriteString("\n]")
	return out.String()
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

// PrettyJson prints the RecordSet as JSON, optionally indented
func (rs RecordSet) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(rs, "", indent[0])
	} else {
		b, err = json.Marshal(rs)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// unmarshalToRecordUnion parses an HTTP response body into one of the supported
// record types:
// - Record: a map representing a single object (empty Record{} for empty responses or 204 No Content).
// - RecordSet: a slice of Records representing an array.
//
// JSON bodies are sniffed on the first non-whitespace character. Stats
// endpoints may answer with msgpack (Content-Type application/x-msgpack);
// those are decoded with the msgpack codec into the same record shapes.
func unmarshalToRecordUnion(response *http.Response) (Renderable, error) {
	defer response.Body.Close()

	// Handle empty response
	if response.ContentLength == 0 || response.StatusCode == http.StatusNoContent {
		return Record{}, nil
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToLower(response.Header.Get(HeaderContentType)), ContentTypeMsgpack) {
		return unmarshalMsgpack(body)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Record{}, nil
	}
	switch trimmed[0] {
	case '{': // JSON object
		var rec Record
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case '[': // JSON array
		var recSet RecordSet
		if err := json.Unmarshal(body, &recSet); err == nil {
			return recSet, nil
		}
		// Not an array of objects; convert each scalar to a Record
		var anySlice []any
		if err := json.Unmarshal(body, &anySlice); err != nil {
			return nil, err
		}
		recordSet := make(RecordSet, len(anySlice))
		for i, item := range anySlice {
			recordSet[i] = Record{customRawKey: item}
		}
		return recordSet, nil
	case '"': // string
		return Record{customRawKey: body}, nil
	default:
		return nil, fmt.Errorf("unsupported JSON format: must be object or array")
	}
}

// unmarshalMsgpack decodes a msgpack body into Record or RecordSet.
func unmarshalMsgpack(body []byte) (Renderable, error) {
	var rec map[string]any
	if err := msgpack.Unmarshal(body, &rec); err == nil {
		return ToRecord(rec), nil
	}
	var list []map[string]any
	if err := msgpack.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unsupported msgpack payload: %w", err)
	}
	return ToRecordSet(list), nil
}

// typeMatch checks whether the dynamic type of given Renderable value
// matches the generic type T at runtime.
func typeMatch[T RecordUnion](val Renderable) bool {
	var zero T
	return reflect.TypeOf(val) == reflect.TypeOf(zero)
}

// setResourceKey sets resource type key for tabular formatting (only if not already set).
func setResourceKey(result Renderable, resourceType string) error {
	switch v := result.(type) {
	case Record:
		if _, ok := v[ResourceTypeKey]; !ok && len(v) > 0 {
			v[ResourceTypeKey] = resourceType
		}
		return nil
	case RecordSet:
		for _, rec := range v {
			if _, ok := rec[ResourceTypeKey]; !ok && len(rec) > 0 {
				rec[ResourceTypeKey] = resourceType
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported type")
	}
}
