package gnode

// AttrValue is either a scalar string or an ordered list of strings
// (spec §3: "values are either scalar strings or ordered lists of
// strings").
type AttrValue struct {
	list []string
}

// Scalar returns v's first value ("" if v is empty); the later values of
// a multi-value are not included.
func (v AttrValue) Scalar() string {
	if len(v.list) == 0 {
		return ""
	}
	return v.list[0]
}

// List returns the ordered values underlying v.
func (v AttrValue) List() []string {
	return v.list
}

// IsList reports whether v carries more than one value.
func (v AttrValue) IsList() bool {
	return len(v.list) > 1
}

// NewScalarAttr builds a single-valued AttrValue.
func NewScalarAttr(s string) AttrValue {
	return AttrValue{list: []string{s}}
}

// NewListAttr builds a multi-valued AttrValue preserving order.
func NewListAttr(vals []string) AttrValue {
	cp := make([]string, len(vals))
	copy(cp, vals)
	return AttrValue{list: cp}
}

// Attributes is the insertion-ordered attribute multimap a Feature
// carries (spec §3: "attribute multimap (insertion-ordered)"; "keys
// within one feature are unique"). Parent, ID, and Target have fixed
// semantics and are accessed through the dedicated helpers below.
type Attributes struct {
	keys   []string
	values map[string]AttrValue
}

// NewAttributes returns an empty attribute table.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]AttrValue)}
}

// Set inserts or overwrites the value for key, preserving the original
// insertion position on overwrite.
func (a *Attributes) Set(key string, v AttrValue) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = v
}

// Get returns the value for key, if present.
func (a *Attributes) Get(key string) (AttrValue, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Delete removes key from the table.
func (a *Attributes) Delete(key string) {
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the attribute keys in insertion order.
func (a *Attributes) Keys() []string {
	return a.keys
}

// ID returns the fixed-semantics ID= attribute, if present.
func (a *Attributes) ID() (string, bool) {
	v, ok := a.Get("ID")
	if !ok {
		return "", false
	}
	return v.Scalar(), true
}

// SetID sets the ID= attribute.
func (a *Attributes) SetID(id string) {
	a.Set("ID", NewScalarAttr(id))
}

// Parents returns the fixed-semantics Parent= attribute values, split
// on comma per the GFF3 dialect.
func (a *Attributes) Parents() []string {
	v, ok := a.Get("Parent")
	if !ok {
		return nil
	}
	return v.List()
}

// Target returns the fixed-semantics Target= attribute, if present.
func (a *Attributes) Target() (string, bool) {
	v, ok := a.Get("Target")
	if !ok {
		return "", false
	}
	return v.Scalar(), true
}

// Clone returns a deep copy, used when a stage needs to mutate
// attributes without affecting a shared reference held elsewhere.
func (a *Attributes) Clone() *Attributes {
	c := NewAttributes()
	for _, k := range a.keys {
		c.Set(k, a.values[k])
	}
	return c
}
