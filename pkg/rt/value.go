// Package rt is the runtime linked into every program pygo generates.
//
// Design: a closed tagged union (Value) for dynamic data, and a binding-level
// wrapper (Object) that is either a Reference to a shared cell or a Transient
// expression result. Lists and dicts are shared handles; scalars copy.
package rt

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	NoneKind Kind = iota
	IntKind
	FloatKind
	BoolKind
	StrKind
	ListKind
	DictKind
)

func (k Kind) String() string {
	switch k {
	case NoneKind:
		return "NoneType"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case BoolKind:
		return "bool"
	case StrKind:
		return "str"
	case ListKind:
		return "list"
	case DictKind:
		return "dict"
	default:
		return "unknown"
	}
}

// Value is the dynamic value representation. The zero Value is None.
// Copying a Value copies scalars and shares list/dict storage.
type Value struct {
	kind Kind
	i    int64 // Int, Bool (0 or 1)
	f    float64
	s    string
	list *list
	dict *dict
}

// list is the shared storage behind a List value. Elements are cells so
// that an index reference can outlive the expression that produced it.
type list struct {
	items []*Cell
	flag  borrowFlag
}

// dict keeps insertion order so that printing is deterministic.
type dict struct {
	index map[dictKey]int
	keys  []Value
	vals  []*Cell
	flag  borrowFlag
}

type dictKey struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func intValue(i int64) Value     { return Value{kind: IntKind, i: i} }
func floatValue(f float64) Value { return Value{kind: FloatKind, f: f} }
func strValue(s string) Value    { return Value{kind: StrKind, s: s} }

func boolValue(b bool) Value {
	if b {
		return Value{kind: BoolKind, i: 1}
	}
	return Value{kind: BoolKind}
}

func listValue(cells []*Cell) Value {
	return Value{kind: ListKind, list: &list{items: cells}}
}

func listOf(values []Value) Value {
	cells := make([]*Cell, len(values))
	for i, v := range values {
		cells[i] = newCell(v)
	}
	return listValue(cells)
}

func newDict() *dict {
	return &dict{index: make(map[dictKey]int)}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// hashKey normalizes v so that equal numbers of different kinds (1, 1.0,
// True) address the same dict slot.
func hashKey(v Value) dictKey {
	switch v.kind {
	case NoneKind:
		return dictKey{kind: NoneKind}
	case IntKind, BoolKind:
		return dictKey{kind: IntKind, i: v.i}
	case FloatKind:
		if v.f == math.Trunc(v.f) && math.Abs(v.f) < 1<<63 {
			return dictKey{kind: IntKind, i: int64(v.f)}
		}
		return dictKey{kind: FloatKind, f: v.f}
	case StrKind:
		return dictKey{kind: StrKind, s: v.s}
	default:
		raise(TypeError, "unhashable type: '%s'", v.kind)
		return dictKey{}
	}
}

// lookup returns the cell stored under key, or nil.
func (d *dict) lookup(key Value) *Cell {
	d.flag.borrow()
	defer d.flag.unborrow()
	if i, ok := d.index[hashKey(key)]; ok {
		return d.vals[i]
	}
	return nil
}

// slot returns the cell stored under key, inserting a None cell if absent.
func (d *dict) slot(key Value) *Cell {
	if c := d.lookup(key); c != nil {
		return c
	}
	d.flag.borrowMut()
	defer d.flag.unborrowMut()
	c := newCell(Value{})
	d.index[hashKey(key)] = len(d.keys)
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, c)
	return c
}

func (d *dict) set(key, val Value) {
	d.slot(key).store(val)
}

// truth implements the boolean-context rule of the source language.
func (v Value) truth() bool {
	switch v.kind {
	case NoneKind:
		return false
	case IntKind, BoolKind:
		return v.i != 0
	case FloatKind:
		return v.f != 0
	case StrKind:
		return v.s != ""
	case ListKind:
		v.list.flag.borrow()
		defer v.list.flag.unborrow()
		return len(v.list.items) > 0
	case DictKind:
		v.dict.flag.borrow()
		defer v.dict.flag.unborrow()
		return len(v.dict.keys) > 0
	}
	return false
}

// shallowCopy duplicates the outermost container. The element cells are
// shared with the original, so mutating an element through either handle
// is visible through both.
func (v Value) shallowCopy() Value {
	switch v.kind {
	case ListKind:
		v.list.flag.borrow()
		defer v.list.flag.unborrow()
		cells := make([]*Cell, len(v.list.items))
		copy(cells, v.list.items)
		return listValue(cells)
	case DictKind:
		v.dict.flag.borrow()
		defer v.dict.flag.unborrow()
		d := newDict()
		for k, i := range v.dict.index {
			d.index[k] = i
		}
		d.keys = append(d.keys, v.dict.keys...)
		d.vals = append(d.vals, v.dict.vals...)
		return Value{kind: DictKind, dict: d}
	default:
		return v
	}
}

// elements returns value copies of the items an iteration over v visits.
func (v Value) elements() []Value {
	switch v.kind {
	case ListKind:
		v.list.flag.borrow()
		defer v.list.flag.unborrow()
		out := make([]Value, len(v.list.items))
		for i, c := range v.list.items {
			out[i] = c.load()
		}
		return out
	case StrKind:
		out := make([]Value, 0, len(v.s))
		for _, r := range v.s {
			out = append(out, strValue(string(r)))
		}
		return out
	case DictKind:
		v.dict.flag.borrow()
		defer v.dict.flag.unborrow()
		return append([]Value(nil), v.dict.keys...)
	default:
		raise(TypeError, "'%s' object is not iterable", v.kind)
		return nil
	}
}

// String formats v the way the source language's str() does.
func (v Value) String() string {
	if v.kind == StrKind {
		return v.s
	}
	return v.repr()
}

func (v Value) repr() string {
	switch v.kind {
	case NoneKind:
		return "None"
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case BoolKind:
		if v.i != 0 {
			return "True"
		}
		return "False"
	case FloatKind:
		return formatFloat(v.f)
	case StrKind:
		return quote(v.s)
	case ListKind:
		parts := make([]string, 0)
		for _, e := range v.elements() {
			parts = append(parts, e.repr())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case DictKind:
		v.dict.flag.borrow()
		defer v.dict.flag.unborrow()
		parts := make([]string, len(v.dict.keys))
		for i, k := range v.dict.keys {
			parts[i] = k.repr() + ": " + v.dict.vals[i].load().repr()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "?"
}
