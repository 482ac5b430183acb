package rt

import (
	"math"
	"strings"
)

// Operator dispatch. Every operation matches exhaustively on the operand
// kinds; bool participates in arithmetic as 0 or 1.

func isNumber(v Value) bool {
	return v.kind == IntKind || v.kind == BoolKind || v.kind == FloatKind
}

func asFloat(v Value) float64 {
	if v.kind == FloatKind {
		return v.f
	}
	return float64(v.i)
}

// arith applies intOp when both operands are integral and floatOp when at
// least one is a float. ok is false for non-numeric operands.
func arith(l, r Value, intOp func(a, b int64) Value, floatOp func(a, b float64) Value) (Value, bool) {
	if !isNumber(l) || !isNumber(r) {
		return Value{}, false
	}
	if l.kind == FloatKind || r.kind == FloatKind {
		return floatOp(asFloat(l), asFloat(r)), true
	}
	return intOp(l.i, r.i), true
}

func unsupported(op string, l, r Value) {
	raise(TypeError, "unsupported operand type(s) for %s: '%s' and '%s'", op, l.kind, r.kind)
}

func add(l, r Value) Value {
	if v, ok := arith(l, r,
		func(a, b int64) Value { return intValue(a + b) },
		func(a, b float64) Value { return floatValue(a + b) }); ok {
		return v
	}
	switch {
	case l.kind == StrKind && r.kind == StrKind:
		return strValue(l.s + r.s)
	case l.kind == ListKind && r.kind == ListKind:
		return listOf(append(l.elements(), r.elements()...))
	}
	unsupported("+", l, r)
	return Value{}
}

func sub(l, r Value) Value {
	if v, ok := arith(l, r,
		func(a, b int64) Value { return intValue(a - b) },
		func(a, b float64) Value { return floatValue(a - b) }); ok {
		return v
	}
	unsupported("-", l, r)
	return Value{}
}

func mul(l, r Value) Value {
	if v, ok := arith(l, r,
		func(a, b int64) Value { return intValue(a * b) },
		func(a, b float64) Value { return floatValue(a * b) }); ok {
		return v
	}
	seq, n := l, r
	if r.kind == StrKind || r.kind == ListKind {
		seq, n = r, l
	}
	if n.kind == IntKind || n.kind == BoolKind {
		count := int(max(n.i, 0))
		switch seq.kind {
		case StrKind:
			return strValue(strings.Repeat(seq.s, count))
		case ListKind:
			elems := seq.elements()
			out := make([]Value, 0, len(elems)*count)
			for i := 0; i < count; i++ {
				out = append(out, elems...)
			}
			return listOf(out)
		}
	}
	unsupported("*", l, r)
	return Value{}
}

func div(l, r Value) Value {
	if !isNumber(l) || !isNumber(r) {
		unsupported("/", l, r)
	}
	b := asFloat(r)
	if b == 0 {
		raise(ZeroDivisionError, "division by zero")
	}
	return floatValue(asFloat(l) / b)
}

func floorDiv(l, r Value) Value {
	if v, ok := arith(l, r,
		func(a, b int64) Value {
			if b == 0 {
				raise(ZeroDivisionError, "integer division or modulo by zero")
			}
			q := a / b
			if a%b != 0 && (a < 0) != (b < 0) {
				q--
			}
			return intValue(q)
		},
		func(a, b float64) Value {
			if b == 0 {
				raise(ZeroDivisionError, "float floor division by zero")
			}
			return floatValue(math.Floor(a / b))
		}); ok {
		return v
	}
	unsupported("//", l, r)
	return Value{}
}

func mod(l, r Value) Value {
	if v, ok := arith(l, r,
		func(a, b int64) Value {
			if b == 0 {
				raise(ZeroDivisionError, "integer modulo by zero")
			}
			m := a % b
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return intValue(m)
		},
		func(a, b float64) Value {
			if b == 0 {
				raise(ZeroDivisionError, "float modulo")
			}
			m := math.Mod(a, b)
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return floatValue(m)
		}); ok {
		return v
	}
	unsupported("%", l, r)
	return Value{}
}

func pow(l, r Value) Value {
	if v, ok := arith(l, r,
		func(a, b int64) Value {
			if b < 0 {
				if a == 0 {
					raise(ZeroDivisionError, "0.0 cannot be raised to a negative power")
				}
				return floatValue(math.Pow(float64(a), float64(b)))
			}
			result := int64(1)
			for b > 0 {
				if b&1 == 1 {
					result *= a
				}
				a *= a
				b >>= 1
			}
			return intValue(result)
		},
		func(a, b float64) Value {
			if a == 0 && b < 0 {
				raise(ZeroDivisionError, "0.0 cannot be raised to a negative power")
			}
			return floatValue(math.Pow(a, b))
		}); ok {
		return v
	}
	unsupported("** or pow()", l, r)
	return Value{}
}

// equal never fails: values of unrelated kinds are simply unequal.
func equal(l, r Value) bool {
	if isNumber(l) && isNumber(r) {
		if l.kind == FloatKind || r.kind == FloatKind {
			return asFloat(l) == asFloat(r)
		}
		return l.i == r.i
	}
	if l.kind != r.kind {
		return false
	}
	switch l.kind {
	case NoneKind:
		return true
	case StrKind:
		return l.s == r.s
	case ListKind:
		if l.list == r.list {
			return true
		}
		a, b := l.elements(), r.elements()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case DictKind:
		if l.dict == r.dict {
			return true
		}
		if len(l.dict.keys) != len(r.dict.keys) {
			return false
		}
		for i, k := range l.dict.keys {
			c := r.dict.lookup(k)
			if c == nil || !equal(l.dict.vals[i].load(), c.load()) {
				return false
			}
		}
		return true
	}
	return false
}

// order returns -1, 0 or 1. ok is false when the kinds are not ordered
// against each other.
func order(l, r Value) (int, bool) {
	switch {
	case isNumber(l) && isNumber(r):
		if l.kind == FloatKind || r.kind == FloatKind {
			a, b := asFloat(l), asFloat(r)
			switch {
			case a < b:
				return -1, true
			case a > b:
				return 1, true
			}
			return 0, true
		}
		switch {
		case l.i < r.i:
			return -1, true
		case l.i > r.i:
			return 1, true
		}
		return 0, true
	case l.kind == StrKind && r.kind == StrKind:
		return strings.Compare(l.s, r.s), true
	case l.kind == ListKind && r.kind == ListKind:
		a, b := l.elements(), r.elements()
		for i := 0; i < len(a) && i < len(b); i++ {
			if equal(a[i], b[i]) {
				continue
			}
			return order(a[i], b[i])
		}
		switch {
		case len(a) < len(b):
			return -1, true
		case len(a) > len(b):
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func compare(op string, l, r Value) int {
	c, ok := order(l, r)
	if !ok {
		raise(TypeError, "'%s' not supported between instances of '%s' and '%s'", op, l.kind, r.kind)
	}
	return c
}

// contains implements `item in container`.
func contains(container, item Value) bool {
	switch container.kind {
	case ListKind:
		for _, e := range container.elements() {
			if equal(e, item) {
				return true
			}
		}
		return false
	case StrKind:
		if item.kind != StrKind {
			raise(TypeError, "'in <string>' requires string as left operand, not %s", item.kind)
		}
		return strings.Contains(container.s, item.s)
	case DictKind:
		return container.dict.lookup(item) != nil
	}
	raise(TypeError, "argument of type '%s' is not iterable", container.kind)
	return false
}

func (o *Object) Add(r *Object) *Object      { return transient(add(o.Load(), r.Load())) }
func (o *Object) Sub(r *Object) *Object      { return transient(sub(o.Load(), r.Load())) }
func (o *Object) Mul(r *Object) *Object      { return transient(mul(o.Load(), r.Load())) }
func (o *Object) Div(r *Object) *Object      { return transient(div(o.Load(), r.Load())) }
func (o *Object) FloorDiv(r *Object) *Object { return transient(floorDiv(o.Load(), r.Load())) }
func (o *Object) Mod(r *Object) *Object      { return transient(mod(o.Load(), r.Load())) }
func (o *Object) Pow(r *Object) *Object      { return transient(pow(o.Load(), r.Load())) }

func (o *Object) Lt(r *Object) *Object { return Bool(compare("<", o.Load(), r.Load()) < 0) }
func (o *Object) Le(r *Object) *Object { return Bool(compare("<=", o.Load(), r.Load()) <= 0) }
func (o *Object) Gt(r *Object) *Object { return Bool(compare(">", o.Load(), r.Load()) > 0) }
func (o *Object) Ge(r *Object) *Object { return Bool(compare(">=", o.Load(), r.Load()) >= 0) }
func (o *Object) Eq(r *Object) *Object { return Bool(equal(o.Load(), r.Load())) }
func (o *Object) Ne(r *Object) *Object { return Bool(!equal(o.Load(), r.Load())) }

// In reports whether o is a member of container.
func (o *Object) In(container *Object) *Object {
	return Bool(contains(container.Load(), o.Load()))
}

func (o *Object) NotIn(container *Object) *Object {
	return Bool(!contains(container.Load(), o.Load()))
}

func (o *Object) Pos() *Object {
	v := o.Load()
	switch v.kind {
	case IntKind, BoolKind:
		return Int(v.i)
	case FloatKind:
		return Float(v.f)
	}
	raise(TypeError, "bad operand type for unary +: '%s'", v.kind)
	return nil
}

func (o *Object) Neg() *Object {
	v := o.Load()
	switch v.kind {
	case IntKind, BoolKind:
		return Int(-v.i)
	case FloatKind:
		return Float(-v.f)
	}
	raise(TypeError, "bad operand type for unary -: '%s'", v.kind)
	return nil
}

func (o *Object) Not() *Object { return Bool(!o.Truth()) }
