// Package descriptor reads .xctestrun test-run descriptors and writes single
// fields back into them.
//
// A descriptor has no fixed schema across Xcode versions, so it is decoded into
// a tree of tagged Values with fallible accessors. Nothing in this package
// panics on an unexpected shape: accessors report ok=false instead.
package descriptor

import (
	"fmt"
	"sort"
	"time"

	"howett.net/plist"
)

// Kind is the type tag of a Value
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate
	KindData
	KindSequence
	KindMap
)

var kindNames = map[Kind]string{
	KindInvalid:  "invalid",
	KindString:   "string",
	KindNumber:   "number",
	KindBool:     "bool",
	KindDate:     "date",
	KindData:     "data",
	KindSequence: "sequence",
	KindMap:      "map",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is one node of a decoded descriptor
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	date time.Time
	data []byte
	seq  []*Value
	m    map[string]*Value
	keys []string // sorted keys of m
}

// String creates a string leaf
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Number creates a numeric leaf
func Number(n float64) *Value { return &Value{kind: KindNumber, num: n} }

// Bool creates a boolean leaf
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Sequence creates an ordered sequence
func Sequence(items ...*Value) *Value {
	return &Value{kind: KindSequence, seq: items}
}

// Map creates a string-keyed map
func Map(entries map[string]*Value) *Value {
	v := &Value{kind: KindMap, m: make(map[string]*Value, len(entries))}
	for k, child := range entries {
		v.m[k] = child
		v.keys = append(v.keys, k)
	}
	sort.Strings(v.keys)
	return v
}

// Kind returns the type tag; a nil Value is KindInvalid.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindInvalid
	}
	return v.kind
}

// AsString returns the string payload
func (v *Value) AsString() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the numeric payload
func (v *Value) AsNumber() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the boolean payload
func (v *Value) AsBool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}

// AsSequence returns the items of a sequence
func (v *Value) AsSequence() ([]*Value, bool) {
	if v.Kind() != KindSequence {
		return nil, false
	}
	return v.seq, true
}

// IsMap reports whether the value is a map
func (v *Value) IsMap() bool {
	return v.Kind() == KindMap
}

// Keys returns the map keys in sorted order, or nil for non-maps.
func (v *Value) Keys() []string {
	if !v.IsMap() {
		return nil
	}
	return v.keys
}

// Get looks up a map entry.
func (v *Value) Get(key string) (*Value, bool) {
	if !v.IsMap() {
		return nil, false
	}
	child, ok := v.m[key]
	return child, ok
}

// Has reports whether a map carries the key
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Index returns the i-th item of a sequence.
func (v *Value) Index(i int) (*Value, bool) {
	seq, ok := v.AsSequence()
	if !ok || i < 0 || i >= len(seq) {
		return nil, false
	}
	return seq[i], true
}

// Len returns the number of items of a sequence or entries of a map.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindSequence:
		return len(v.seq)
	case KindMap:
		return len(v.m)
	}
	return 0
}

// fromPlist converts the generic result of plist.Unmarshal into a Value tree.
func fromPlist(raw any) (*Value, error) {
	switch t := raw.(type) {
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case uint64:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case plist.UID:
		return Number(float64(t)), nil
	case time.Time:
		return &Value{kind: KindDate, date: t}, nil
	case []byte:
		return &Value{kind: KindData, data: t}, nil
	case []any:
		items := make([]*Value, 0, len(t))
		for i, item := range t {
			child, err := fromPlist(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items = append(items, child)
		}
		return Sequence(items...), nil
	case map[string]any:
		entries := make(map[string]*Value, len(t))
		for k, item := range t {
			child, err := fromPlist(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			entries[k] = child
		}
		return Map(entries), nil
	}
	return nil, fmt.Errorf("unsupported plist value of type %T", raw)
}
