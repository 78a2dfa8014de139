package libn11

import (
	"bytes"
	"encoding/json"
)

// A Record is a structure decoded from a SOAP response.
// Fields keep the order they have on the wire. A field value is a scalar (string or nil
// when decoded from XML), a nested *Record or a []any when the element is repeated.
type Record struct {
	keys   []string
	fields map[string]any
}

// NewRecord returns a new Record filled with the given name/value pairs.
// It panics if kv has an odd length or if a name is not a string.
func NewRecord(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("libn11: odd number of name/value arguments")
	}

	r := &Record{fields: map[string]any{}}
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			panic("libn11: record field names must be strings")
		}
		r.set(name, kv[i+1])
	}
	return r
}

// Get returns the value of the named field, nil if absent.
func (r *Record) Get(name string) any {
	if r == nil {
		return nil
	}
	return r.fields[name]
}

// Has returns true if the named field exists.
func (r *Record) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.fields[name]
	return ok
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Fields returns the top level fields as a map without converting nested records.
func (r *Record) Fields() map[string]any {
	m := make(map[string]any, r.Len())
	for _, k := range r.Keys() {
		m[k] = r.fields[k]
	}
	return m
}

// Map returns r as plain maps and slices, recursively.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, r.Len())
	for _, k := range r.Keys() {
		m[k] = ToPlain(r.fields[k])
	}
	return m
}

// MarshalJSON implements json.Marshaler. Fields are written in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.fields[k])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) set(name string, v any) {
	if r.fields == nil {
		r.fields = map[string]any{}
	}
	if _, ok := r.fields[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.fields[name] = v
}

// add appends v to the named field, turning it into a sequence when the name is repeated.
func (r *Record) add(name string, v any) {
	current, ok := r.fields[name]
	if !ok {
		r.set(name, v)
		return
	}

	if seq, ok := current.([]any); ok {
		r.fields[name] = append(seq, v)
		return
	}
	r.fields[name] = []any{current, v}
}

// ToPlain converts v into plain Go values: every *Record becomes a map[string]any and
// every slice a []any, at any depth. Scalars are returned unchanged.
func ToPlain(v any) any {
	switch v := v.(type) {
	case *Record:
		if v == nil {
			return map[string]any{}
		}
		return v.Map()
	case map[string]any:
		m := make(map[string]any, len(v))
		for k := range v {
			m[k] = ToPlain(v[k])
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i := range v {
			s[i] = ToPlain(v[i])
		}
		return s
	case []*Record:
		s := make([]any, len(v))
		for i := range v {
			s[i] = ToPlain(v[i])
		}
		return s
	default:
		return v
	}
}
