package rt

// Object is what generated code manipulates. A Reference points at a shared
// cell and represents a variable binding or a container slot; a Transient
// owns an unshared Value produced by an expression.
//
// Only Values are ever stored inside containers. A Reference is copied out
// with Load before it is stored, so containers never hold bindings.
type Object struct {
	cell *Cell
	val  Value
}

func transient(v Value) *Object { return &Object{val: v} }
func reference(c *Cell) *Object { return &Object{cell: c} }

// NewVar returns a fresh Reference initialized to None. Generated code
// declares every variable of a scope with it.
func NewVar() *Object { return reference(newCell(Value{})) }

func None() *Object             { return transient(Value{}) }
func Int(i int64) *Object       { return transient(intValue(i)) }
func Float(f float64) *Object   { return transient(floatValue(f)) }
func Str(s string) *Object      { return transient(strValue(s)) }
func Bool(b bool) *Object       { return transient(boolValue(b)) }
func FromValue(v Value) *Object { return transient(v) }

// List builds a new list whose elements are value copies of items.
func List(items ...*Object) *Object {
	cells := make([]*Cell, len(items))
	for i, item := range items {
		cells[i] = newCell(item.Load())
	}
	return transient(listValue(cells))
}

// Dict builds a dict from alternating keys and values.
func Dict(kv ...*Object) *Object {
	if len(kv)%2 != 0 {
		raise(ValueError, "dict literal needs key/value pairs")
	}
	d := newDict()
	for i := 0; i < len(kv); i += 2 {
		d.set(kv[i].Load(), kv[i+1].Load())
	}
	return transient(Value{kind: DictKind, dict: d})
}

// IsRef reports whether o is a Reference.
func (o *Object) IsRef() bool { return o.cell != nil }

// Load returns a value copy of o's content.
func (o *Object) Load() Value {
	if o.cell != nil {
		return o.cell.load()
	}
	return o.val
}

// Kind reports the kind of the value o currently holds.
func (o *Object) Kind() Kind { return o.Load().kind }

func (o *Object) String() string { return o.Load().String() }

func (o *Object) store(v Value) {
	if o.cell != nil {
		o.cell.store(v)
		return
	}
	o.val = v
}

// Assign overwrites the value behind o with a value copy of src. On a
// Reference obtained from IndexRef this mutates the container slot, which
// every handle to the container observes.
func (o *Object) Assign(src *Object) {
	o.store(src.Load())
}

// Bind assigns src to o and yields o, letting an expression name an
// intermediate result exactly once.
func (o *Object) Bind(src *Object) *Object {
	o.Assign(src)
	return o
}

// Truth applies the boolean-context test to o.
func (o *Object) Truth() bool { return o.Load().truth() }

// ShallowCopy returns a fresh Reference holding a shallow copy of o. The
// call convention applies it to every argument of a user function.
func (o *Object) ShallowCopy() *Object {
	return reference(newCell(o.Load().shallowCopy()))
}

// IndexRef returns a Reference to the slot at key, for assignment targets.
// Dict slots are created on demand.
func (o *Object) IndexRef(key *Object) *Object {
	v, k := o.Load(), key.Load()
	switch v.kind {
	case ListKind:
		v.list.flag.borrow()
		defer v.list.flag.unborrow()
		i := normIndex(k, len(v.list.items), "list assignment")
		return reference(v.list.items[i])
	case DictKind:
		return reference(v.dict.slot(k))
	case StrKind:
		raise(TypeError, "'str' object does not support item assignment")
	default:
		raise(TypeError, "'%s' object is not subscriptable", v.kind)
	}
	return nil
}

// IndexValue returns a Transient copy of the element at key.
func (o *Object) IndexValue(key *Object) *Object {
	v, k := o.Load(), key.Load()
	switch v.kind {
	case ListKind:
		v.list.flag.borrow()
		defer v.list.flag.unborrow()
		i := normIndex(k, len(v.list.items), "list")
		return transient(v.list.items[i].load())
	case DictKind:
		c := v.dict.lookup(k)
		if c == nil {
			raise(KeyError, "%s", k.repr())
		}
		return transient(c.load())
	case StrKind:
		runes := []rune(v.s)
		i := normIndex(k, len(runes), "string")
		return transient(strValue(string(runes[i])))
	default:
		raise(TypeError, "'%s' object is not subscriptable", v.kind)
	}
	return nil
}

// normIndex resolves a possibly negative index against length n.
func normIndex(k Value, n int, what string) int {
	if k.kind != IntKind && k.kind != BoolKind {
		raise(TypeError, "%s indices must be integers, not %s", what, k.kind)
	}
	i := k.i
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		raise(IndexError, "%s index out of range", what)
	}
	return int(i)
}
