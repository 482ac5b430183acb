package rt

import (
	"strings"
)

// Methods callable on objects from generated code. Each checks the
// receiver kind first and raises AttributeError on a mismatch.

func noAttr(v Value, name string) {
	raise(AttributeError, "'%s' object has no attribute '%s'", v.kind, name)
}

func (o *Object) listOf(method string) *list {
	v := o.Load()
	if v.kind != ListKind {
		noAttr(v, method)
	}
	return v.list
}

func (o *Object) strOf(method string) string {
	v := o.Load()
	if v.kind != StrKind {
		noAttr(v, method)
	}
	return v.s
}

func (o *Object) dictOf(method string) *dict {
	v := o.Load()
	if v.kind != DictKind {
		noAttr(v, method)
	}
	return v.dict
}

func strArg(method string, a *Object) string {
	v := a.Load()
	if v.kind != StrKind {
		raise(TypeError, "%s() argument must be str, not %s", method, v.kind)
	}
	return v.s
}

// Append stores a value copy of x at the end of the list.
func (o *Object) Append(x *Object) *Object {
	l := o.listOf("append")
	v := x.Load()
	l.flag.borrowMut()
	defer l.flag.unborrowMut()
	l.items = append(l.items, newCell(v))
	return None()
}

// Extend appends the elements of xs. Elements are read before the list is
// mutated, so extending a list with itself is well defined.
func (o *Object) Extend(xs *Object) *Object {
	l := o.listOf("extend")
	elems := xs.Load().elements()
	l.flag.borrowMut()
	defer l.flag.unborrowMut()
	for _, e := range elems {
		l.items = append(l.items, newCell(e))
	}
	return None()
}

// Pop removes and returns the element at the given index (default last).
func (o *Object) Pop(index ...*Object) *Object {
	l := o.listOf("pop")
	l.flag.borrowMut()
	defer l.flag.unborrowMut()
	if len(l.items) == 0 {
		raise(IndexError, "pop from empty list")
	}
	i := len(l.items) - 1
	if len(index) > 0 {
		i = normIndex(index[0].Load(), len(l.items), "pop")
	}
	c := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return transient(c.load())
}

func (o *Object) Reverse() *Object {
	l := o.listOf("reverse")
	l.flag.borrowMut()
	defer l.flag.unborrowMut()
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
	return None()
}

// Sort orders the list in place. Mixed kinds that do not compare raise
// TypeError and leave the list unchanged.
func (o *Object) Sort() *Object {
	l := o.listOf("sort")
	elems := o.Load().elements()
	sortValues(elems)
	l.flag.borrowMut()
	defer l.flag.unborrowMut()
	cells := make([]*Cell, len(elems))
	for i, e := range elems {
		cells[i] = newCell(e)
	}
	l.items = cells
	return None()
}

// Index returns the position of the first element equal to x.
func (o *Object) Index(x *Object) *Object {
	v := o.Load()
	switch v.kind {
	case ListKind:
		target := x.Load()
		for i, e := range v.elements() {
			if equal(e, target) {
				return Int(int64(i))
			}
		}
		raise(ValueError, "%s is not in list", target.repr())
	case StrKind:
		i := strings.Index(v.s, strArg("index", x))
		if i < 0 {
			raise(ValueError, "substring not found")
		}
		return Int(int64(len([]rune(v.s[:i]))))
	default:
		noAttr(v, "index")
	}
	return nil
}

// Count counts occurrences in a list or non-overlapping substrings.
func (o *Object) Count(x *Object) *Object {
	v := o.Load()
	switch v.kind {
	case ListKind:
		target := x.Load()
		n := int64(0)
		for _, e := range v.elements() {
			if equal(e, target) {
				n++
			}
		}
		return Int(n)
	case StrKind:
		sub := strArg("count", x)
		if sub == "" {
			return Int(int64(len([]rune(v.s)) + 1))
		}
		return Int(int64(strings.Count(v.s, sub)))
	default:
		noAttr(v, "count")
	}
	return nil
}

// Split splits on runs of whitespace, or on sep when given.
func (o *Object) Split(sep ...*Object) *Object {
	s := o.strOf("split")
	var parts []string
	if len(sep) == 0 || sep[0].Kind() == NoneKind {
		parts = strings.Fields(s)
	} else {
		d := strArg("split", sep[0])
		if d == "" {
			raise(ValueError, "empty separator")
		}
		parts = strings.Split(s, d)
	}
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = strValue(p)
	}
	return transient(listOf(out))
}

// Strip removes leading and trailing whitespace, or the given characters.
func (o *Object) Strip(chars ...*Object) *Object {
	s := o.strOf("strip")
	if len(chars) == 0 || chars[0].Kind() == NoneKind {
		return Str(strings.TrimSpace(s))
	}
	return Str(strings.Trim(s, strArg("strip", chars[0])))
}

// Join concatenates the string elements of xs with o between them.
func (o *Object) Join(xs *Object) *Object {
	sep := o.strOf("join")
	elems := xs.Load().elements()
	parts := make([]string, len(elems))
	for i, e := range elems {
		if e.kind != StrKind {
			raise(TypeError, "sequence item %d: expected str instance, %s found", i, e.kind)
		}
		parts[i] = e.s
	}
	return Str(strings.Join(parts, sep))
}

func (o *Object) Upper() *Object { return Str(strings.ToUpper(o.strOf("upper"))) }
func (o *Object) Lower() *Object { return Str(strings.ToLower(o.strOf("lower"))) }

func (o *Object) Keys() *Object {
	d := o.dictOf("keys")
	d.flag.borrow()
	defer d.flag.unborrow()
	return transient(listOf(append([]Value(nil), d.keys...)))
}

func (o *Object) Values() *Object {
	d := o.dictOf("values")
	d.flag.borrow()
	defer d.flag.unborrow()
	out := make([]Value, len(d.vals))
	for i, c := range d.vals {
		out[i] = c.load()
	}
	return transient(listOf(out))
}

// Items returns [key, value] pairs; tuples are lists in this runtime.
func (o *Object) Items() *Object {
	d := o.dictOf("items")
	d.flag.borrow()
	defer d.flag.unborrow()
	out := make([]Value, len(d.keys))
	for i, k := range d.keys {
		out[i] = listOf([]Value{k, d.vals[i].load()})
	}
	return transient(listOf(out))
}

// Get returns the value under key, or the default (None) when absent.
func (o *Object) Get(key *Object, def ...*Object) *Object {
	d := o.dictOf("get")
	if c := d.lookup(key.Load()); c != nil {
		return transient(c.load())
	}
	if len(def) > 0 {
		return transient(def[0].Load())
	}
	return None()
}
