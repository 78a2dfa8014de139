package libn11

// A Params is an ordered set of request parameters.
// Keys are sent verbatim, in insertion order, as elements of the SOAP request.
//
// Supported values are strings, booleans, numbers, encoding.TextMarshaler, fmt.Stringer,
// nested *Params, map[string]any (sorted by key) and slices (one element per item).
// Nil values are not sent.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams returns a new Params filled with the given key/value pairs.
// It panics if kv has an odd length or if a key is not a string.
func NewParams(kv ...any) *Params {
	if len(kv)%2 != 0 {
		panic("libn11: odd number of key/value arguments")
	}

	p := &Params{values: map[string]any{}}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("libn11: parameter keys must be strings")
		}
		p.Set(k, kv[i+1])
	}
	return p
}

// Set sets the value of k. An existing key keeps its position.
func (p *Params) Set(k string, v any) *Params {
	if p.values == nil {
		p.values = map[string]any{}
	}
	if _, ok := p.values[k]; !ok {
		p.keys = append(p.keys, k)
	}
	p.values[k] = v
	return p
}

// Get returns the value of k.
func (p *Params) Get(k string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[k]
	return v, ok
}

// Delete removes k.
func (p *Params) Delete(k string) {
	if _, ok := p.values[k]; !ok {
		return
	}
	delete(p.values, k)
	for i, key := range p.keys {
		if key == k {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			return
		}
	}
}

// Keys returns the keys in order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of keys.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Merge returns a new Params with the keys of p followed by the new keys of o.
// Values of o overwrite the ones of p. It is a shallow merge.
func (p *Params) Merge(o *Params) *Params {
	m := NewParams()
	for _, k := range p.Keys() {
		m.Set(k, p.values[k])
	}
	for _, k := range o.Keys() {
		m.Set(k, o.values[k])
	}
	return m
}

// Map returns p as a map, nested Params included.
func (p *Params) Map() map[string]any {
	m := make(map[string]any, p.Len())
	for _, k := range p.Keys() {
		m[k] = paramValue(p.values[k])
	}
	return m
}

func paramValue(v any) any {
	switch v := v.(type) {
	case *Params:
		return v.Map()
	case []any:
		s := make([]any, len(v))
		for i := range v {
			s[i] = paramValue(v[i])
		}
		return s
	case []*Params:
		s := make([]any, len(v))
		for i := range v {
			s[i] = v[i].Map()
		}
		return s
	default:
		return v
	}
}
