package core

import (
	"fmt"
	"sort"
	"strings"
)

// Filter operators understood by the VergeOS list endpoints.
const (
	OpEq = "eq" // equals
	OpNe = "ne" // not equals
	OpGt = "gt" // greater than
	OpGe = "ge" // greater than or equal
	OpLt = "lt" // less than
	OpLe = "le" // less than or equal
	OpCt = "ct" // contains
	OpBw = "bw" // begins with
)

// Predicate is a single field comparison inside a filter expression.
type Predicate struct {
	Field string
	Op    string
	Value any
}

func (p Predicate) render() string {
	return fmt.Sprintf("%s %s %s", p.Field, p.Op, renderFilterValue(p.Value))
}

// renderFilterValue quotes string values for the filter grammar. Single
// quotes inside the value are escaped by doubling, the same convention the
// UI uses. Numbers and booleans go out unquoted.
func renderFilterValue(value any) string {
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Filter accumulates predicates and renders the server-side filter
// expression for a list request. Predicates added via the comparison
// methods are joined with "and"; Or starts a new "or" branch.
//
//	f := NewFilter().Eq("enabled", true).Ct("name", "web")
//	// renders: enabled eq true and name ct 'web'
type Filter struct {
	branches [][]Predicate
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{branches: [][]Predicate{{}}}
}

func (f *Filter) add(field, op string, value any) *Filter {
	last := len(f.branches) - 1
	f.branches[last] = append(f.branches[last], Predicate{Field: field, Op: op, Value: value})
	return f
}

func (f *Filter) Eq(field string, value any) *Filter { return f.add(field, OpEq, value) }
func (f *Filter) Ne(field string, value any) *Filter { return f.add(field, OpNe, value) }
func (f *Filter) Gt(field string, value any) *Filter { return f.add(field, OpGt, value) }
func (f *Filter) Ge(field string, value any) *Filter { return f.add(field, OpGe, value) }
func (f *Filter) Lt(field string, value any) *Filter { return f.add(field, OpLt, value) }
func (f *Filter) Le(field string, value any) *Filter { return f.add(field, OpLe, value) }

// Ct adds a "contains" predicate.
func (f *Filter) Ct(field string, value any) *Filter { return f.add(field, OpCt, value) }

// Bw adds a "begins with" predicate.
func (f *Filter) Bw(field string, value any) *Filter { return f.add(field, OpBw, value) }

// Or closes the current "and" group and starts a new one; the groups are
// joined with "or" when rendering.
func (f *Filter) Or() *Filter {
	f.branches = append(f.branches, []Predicate{})
	return f
}

// Empty reports whether the filter has no predicates.
func (f *Filter) Empty() bool {
	for _, branch := range f.branches {
		if len(branch) > 0 {
			return false
		}
	}
	return true
}

// Render produces the filter expression string, or "" for an empty filter.
func (f *Filter) Render() string {
	var parts []string
	for _, branch := range f.branches {
		if len(branch) == 0 {
			continue
		}
		preds := make([]string, len(branch))
		for i, p := range branch {
			preds[i] = p.render()
		}
		parts = append(parts, strings.Join(preds, " and "))
	}
	return strings.Join(parts, " or ")
}

// ApplyTo sets the rendered expression as the "filter" query parameter,
// leaving the params untouched when the filter is empty.
func (f *Filter) ApplyTo(params Params) {
	if rendered := f.Render(); rendered != "" {
		params["filter"] = rendered
	}
}

// FieldSpec describes the "fields" query parameter: which columns to return
// and which referenced-row columns to join in.
//
// A join walks a reference column into the referenced table with "#":
//
//	FieldSpec{}.With("name").Join("status", "node", "name").As("node_name")
//	// renders: name,status#node#name as node_name
type FieldSpec struct {
	fields []string
}

// NewFieldSpec returns a FieldSpec preloaded with the given plain columns.
func NewFieldSpec(fields ...string) *FieldSpec {
	return &FieldSpec{fields: fields}
}

// With appends plain columns.
func (fs *FieldSpec) With(fields ...string) *FieldSpec {
	fs.fields = append(fs.fields, fields...)
	return fs
}

// Join appends a join expression walking reference columns with "#".
// Join("status", "node", "name") selects the name of the node referenced by
// the row's status.
func (fs *FieldSpec) Join(path ...string) *FieldSpec {
	fs.fields = append(fs.fields, strings.Join(path, "#"))
	return fs
}

// As renames the most recently added field in the result rows.
func (fs *FieldSpec) As(alias string) *FieldSpec {
	if len(fs.fields) > 0 {
		fs.fields[len(fs.fields)-1] += " as " + alias
	}
	return fs
}

// All requests every column including the most expensive ones.
func (fs *FieldSpec) All() *FieldSpec {
	fs.fields = append(fs.fields, "all")
	return fs
}

// Render produces the comma-separated fields expression.
func (fs *FieldSpec) Render() string {
	return strings.Join(fs.fields, ",")
}

// ApplyTo sets the rendered expression as the "fields" query parameter.
func (fs *FieldSpec) ApplyTo(params Params) {
	if len(fs.fields) > 0 {
		params["fields"] = fs.Render()
	}
}

// SortSpec describes the "sort" query parameter. Columns are sorted in the
// order added; Desc prefixes the column with "-".
type SortSpec struct {
	fields []string
}

// NewSortSpec returns an empty SortSpec.
func NewSortSpec() *SortSpec {
	return &SortSpec{}
}

// Asc appends an ascending sort column.
func (ss *SortSpec) Asc(field string) *SortSpec {
	ss.fields = append(ss.fields, field)
	return ss
}

// Desc appends a descending sort column.
func (ss *SortSpec) Desc(field string) *SortSpec {
	ss.fields = append(ss.fields, "-"+field)
	return ss
}

// Render produces the comma-separated sort expression.
func (ss *SortSpec) Render() string {
	return strings.Join(ss.fields, ",")
}

// ApplyTo sets the rendered expression as the "sort" query parameter.
func (ss *SortSpec) ApplyTo(params Params) {
	if len(ss.fields) > 0 {
		params["sort"] = ss.Render()
	}
}

// GlobMatch reports whether name matches a shell-style pattern using "*"
// (any run) and "?" (single char). Matching is case-insensitive; a pattern
// without wildcards requires an exact (case-insensitive) match.
func GlobMatch(pattern, name string) bool {
	return globMatch(strings.ToLower(pattern), strings.ToLower(name))
}

func globMatch(pattern, name string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Collapse consecutive stars
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if pattern == "" {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if globMatch(pattern, name[i:]) {
					return true
				}
			}
			return false
		case '?':
			if name == "" {
				return false
			}
			pattern, name = pattern[1:], name[1:]
		default:
			if name == "" || pattern[0] != name[0] {
				return false
			}
			pattern, name = pattern[1:], name[1:]
		}
	}
	return name == ""
}

// HasGlob reports whether the string contains glob wildcards.
func HasGlob(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// globPrefilter extracts the longest literal run from a glob pattern that can
// be pushed to the server as a "ct" prefilter, cutting the candidate set
// before narrowing client-side. Returns "" when no useful literal exists.
func globPrefilter(pattern string) string {
	runs := strings.FieldsFunc(pattern, func(r rune) bool {
		return r == '*' || r == '?'
	})
	if len(runs) == 0 {
		return ""
	}
	sort.Slice(runs, func(i, j int) bool { return len(runs[i]) > len(runs[j]) })
	return runs[0]
}

// FilterByGlob narrows a RecordSet to the records whose named field matches
// the glob pattern.
func FilterByGlob(rs RecordSet, field, pattern string) RecordSet {
	var out RecordSet
	for _, rec := range rs {
		val, ok := rec[field]
		if !ok || val == nil {
			continue
		}
		if GlobMatch(pattern, fmt.Sprintf("%v", val)) {
			out = append(out, rec)
		}
	}
	return out
}
