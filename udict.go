package upipe

// AttrKind identifies the wire/storage type of a udict value.
type AttrKind int

const (
	// AttrOpaque is an uninterpreted byte payload.
	AttrOpaque AttrKind = iota
	// AttrSmallInt is a small (machine-word) signed integer.
	AttrSmallInt
	// AttrBigInt is a 64-bit signed integer.
	AttrBigInt
	// AttrFloat is a 64-bit float.
	AttrFloat
	// AttrBool is a boolean.
	AttrBool
	// AttrRational is a Rational.
	AttrRational
	// AttrSmallString is a short string stored inline.
	AttrSmallString
	// AttrString is a string of any length; SetString and String use
	// this kind. Long strings are stored like short ones, with no
	// separate shadow region.
	AttrString
)

// attrKey identifies a udict entry by (type, name), matching the spec's
// keying scheme: two attributes with the same name but different kinds
// do not collide.
type attrKey struct {
	kind AttrKind
	name string
}

// UDict is an ordered attribute multimap from (type, name) to a typed
// value. It is the dictionary half of a uref's envelope, carrying
// metadata such as flow id, flow definition, clock timestamps and
// discontinuity markers.
//
// Entries are stored in insertion order and a UDict is safe to Dup():
// duplication is copy-on-write, sharing the underlying entry slice until
// either copy is mutated.
type UDict struct {
	entries []udictEntry
	index   map[attrKey]int
	shared  bool // true once Dup has been called; next Set triggers a copy
}

type udictEntry struct {
	key   attrKey
	value interface{}
}

// NewUDict creates an empty attribute dictionary.
func NewUDict() *UDict {
	return &UDict{index: map[attrKey]int{}}
}

func (d *UDict) detachIfShared() {
	if !d.shared {
		return
	}
	entries := make([]udictEntry, len(d.entries))
	copy(entries, d.entries)
	index := make(map[attrKey]int, len(d.index))
	for k, v := range d.index {
		index[k] = v
	}
	d.entries = entries
	d.index = index
	d.shared = false
}

// set stores or replaces the value for (kind, name).
func (d *UDict) set(kind AttrKind, name string, value interface{}) {
	d.detachIfShared()
	k := attrKey{kind: kind, name: name}
	if i, ok := d.index[k]; ok {
		d.entries[i].value = value
		return
	}
	d.index[k] = len(d.entries)
	d.entries = append(d.entries, udictEntry{key: k, value: value})
}

func (d *UDict) get(kind AttrKind, name string) (interface{}, bool) {
	i, ok := d.index[attrKey{kind: kind, name: name}]
	if !ok {
		return nil, false
	}
	return d.entries[i].value, true
}

// Delete removes the (kind, name) attribute, if present.
func (d *UDict) Delete(kind AttrKind, name string) {
	k := attrKey{kind: kind, name: name}
	i, ok := d.index[k]
	if !ok {
		return
	}
	d.detachIfShared()
	// recompute index position since detach may have shifted nothing,
	// but guard against stale i from before detachIfShared copied.
	i = d.index[k]
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.index, k)
	for idx := i; idx < len(d.entries); idx++ {
		d.index[d.entries[idx].key] = idx
	}
}

// SetString sets a string attribute (flow definition, language tag, ...).
func (d *UDict) SetString(name, value string) { d.set(AttrString, name, value) }

// String returns a string attribute.
func (d *UDict) String(name string) (string, bool) {
	v, ok := d.get(AttrString, name)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// SetInt sets a 64-bit integer attribute (PTS/DTS in ticks, flow id, ...).
func (d *UDict) SetInt(name string, value int64) { d.set(AttrBigInt, name, value) }

// Int returns an integer attribute.
func (d *UDict) Int(name string) (int64, bool) {
	v, ok := d.get(AttrBigInt, name)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// SetBool sets a boolean attribute (discontinuity, random access, ...).
func (d *UDict) SetBool(name string, value bool) { d.set(AttrBool, name, value) }

// Bool returns a boolean attribute.
func (d *UDict) Bool(name string) (bool, bool) {
	v, ok := d.get(AttrBool, name)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

// SetRational sets a rational attribute (the rate accompanying a clock
// timestamp).
func (d *UDict) SetRational(name string, value Rational) { d.set(AttrRational, name, value) }

// Rational returns a rational attribute.
func (d *UDict) Rational(name string) (Rational, bool) {
	v, ok := d.get(AttrRational, name)
	if !ok {
		return Rational{}, false
	}
	return v.(Rational), true
}

// SetOpaque sets an opaque byte-payload attribute.
func (d *UDict) SetOpaque(name string, value []byte) { d.set(AttrOpaque, name, value) }

// Opaque returns an opaque byte-payload attribute.
func (d *UDict) Opaque(name string) ([]byte, bool) {
	v, ok := d.get(AttrOpaque, name)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Dup returns a shallow, copy-on-write duplicate: both dictionaries
// share the same backing entries until either is mutated, at which
// point that copy detaches.
func (d *UDict) Dup() *UDict {
	d.shared = true
	return &UDict{entries: d.entries, index: d.index, shared: true}
}

// Len returns the number of attributes currently stored.
func (d *UDict) Len() int {
	return len(d.entries)
}

// Names returns the attribute names in insertion order, for iteration
// and debug dumps.
func (d *UDict) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.key.name
	}
	return names
}
