package rt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	stdin    = bufio.NewReader(os.Stdin)
	stdout   = bufio.NewWriter(os.Stdout)
	stderr   io.Writer = os.Stderr
	exitFunc           = os.Exit
)

// SetIO redirects Input and Print. Tests use it to drive programs with
// fixture text.
func SetIO(r io.Reader, w io.Writer) {
	stdin = bufio.NewReader(r)
	stdout = bufio.NewWriter(w)
}

// Flush writes buffered output.
func Flush() {
	_ = stdout.Flush()
}

// Exit must be deferred at the top of a generated main. It flushes output
// and turns a runtime panic into a one-line diagnostic and exit status 1,
// the way an uncaught exception terminates the source program.
func Exit() {
	r := recover()
	Flush()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case *Error:
		fmt.Fprintln(stderr, e.Error())
	default:
		fmt.Fprintf(stderr, "RuntimeError: %v\n", e)
	}
	exitFunc(1)
}

// Print writes the str() of each argument separated by spaces.
func Print(args ...*Object) *Object {
	for i, a := range args {
		if i > 0 {
			stdout.WriteByte(' ')
		}
		stdout.WriteString(a.String())
	}
	stdout.WriteByte('\n')
	return None()
}

// Input reads one line from stdin without its line terminator.
func Input(prompt ...*Object) *Object {
	if len(prompt) > 0 {
		stdout.WriteString(prompt[0].String())
	}
	Flush()
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		raise(EOFError, "EOF when reading a line")
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return Str(line)
}

// ToList implements list() and list(iterable). The result never shares
// storage with its argument.
func ToList(args ...*Object) *Object {
	if len(args) == 0 {
		return transient(listOf(nil))
	}
	return transient(listOf(args[0].Load().elements()))
}

func Len(x *Object) *Object {
	v := x.Load()
	switch v.kind {
	case StrKind:
		return Int(int64(len([]rune(v.s))))
	case ListKind:
		v.list.flag.borrow()
		defer v.list.flag.unborrow()
		return Int(int64(len(v.list.items)))
	case DictKind:
		v.dict.flag.borrow()
		defer v.dict.flag.unborrow()
		return Int(int64(len(v.dict.keys)))
	}
	raise(TypeError, "object of type '%s' has no len()", v.kind)
	return nil
}

// Range materializes range(stop), range(start, stop) or
// range(start, stop, step) as a list.
func Range(args ...*Object) *Object {
	bounds := make([]int64, len(args))
	for i, a := range args {
		v := a.Load()
		if v.kind != IntKind && v.kind != BoolKind {
			raise(TypeError, "'%s' object cannot be interpreted as an integer", v.kind)
		}
		bounds[i] = v.i
	}
	var r span
	switch len(bounds) {
	case 1:
		r = newSpan(bounds[0])
	case 2:
		r = newSpanStartStop(bounds[0], bounds[1])
	case 3:
		if bounds[2] == 0 {
			raise(ValueError, "range() arg 3 must not be zero")
		}
		r = newSpanStartStopStep(bounds[0], bounds[1], bounds[2])
	default:
		raise(TypeError, "range expected 1 to 3 arguments, got %d", len(bounds))
	}
	n := r.length()
	cells := make([]*Cell, n)
	for i := int64(0); i < n; i++ {
		cells[i] = newCell(intValue(r.at(i)))
	}
	return transient(listValue(cells))
}

// Map applies f to every element of xs and collects the results in a new
// list. A list argument stays borrowed while f runs, so an f that mutates
// the same list fails with BorrowError instead of observing a torn list.
func Map(f func(*Object) *Object, xs *Object) *Object {
	v := xs.Load()
	if v.kind == ListKind {
		v.list.flag.borrow()
		defer v.list.flag.unborrow()
		out := make([]*Cell, 0, len(v.list.items))
		for _, c := range v.list.items {
			out = append(out, newCell(f(reference(c).ShallowCopy()).Load()))
		}
		return transient(listValue(out))
	}
	elems := v.elements()
	out := make([]*Cell, 0, len(elems))
	for _, e := range elems {
		out = append(out, newCell(f(transient(e).ShallowCopy()).Load()))
	}
	return transient(listValue(out))
}

// ToInt implements int(x).
func ToInt(x *Object) *Object {
	v := x.Load()
	switch v.kind {
	case IntKind, BoolKind:
		return Int(v.i)
	case FloatKind:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			raise(ValueError, "cannot convert float %s to integer", formatFloat(v.f))
		}
		return Int(int64(v.f))
	case StrKind:
		s := strings.ReplaceAll(strings.TrimSpace(v.s), "_", "")
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			raise(ValueError, "invalid literal for int() with base 10: %s", quote(v.s))
		}
		return Int(i)
	}
	raise(TypeError, "int() argument must be a string or a number, not '%s'", v.kind)
	return nil
}

// ToFloat implements float(x).
func ToFloat(x *Object) *Object {
	v := x.Load()
	switch v.kind {
	case IntKind, BoolKind:
		return Float(float64(v.i))
	case FloatKind:
		return Float(v.f)
	case StrKind:
		s := strings.TrimSpace(v.s)
		switch strings.ToLower(s) {
		case "inf", "+inf", "infinity":
			return Float(math.Inf(1))
		case "-inf", "-infinity":
			return Float(math.Inf(-1))
		case "nan", "+nan", "-nan":
			return Float(math.NaN())
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			raise(ValueError, "could not convert string to float: %s", quote(v.s))
		}
		return Float(f)
	}
	raise(TypeError, "float() argument must be a string or a number, not '%s'", v.kind)
	return nil
}

// ToStr implements str(x).
func ToStr(x *Object) *Object {
	return Str(x.String())
}

func Abs(x *Object) *Object {
	v := x.Load()
	switch v.kind {
	case IntKind, BoolKind:
		return Int(absInt(v.i))
	case FloatKind:
		return Float(math.Abs(v.f))
	}
	raise(TypeError, "bad operand type for abs(): '%s'", v.kind)
	return nil
}

// extremum backs min and max: one iterable argument or several values.
func extremum(name, op string, want int, args []*Object) *Object {
	var candidates []Value
	if len(args) == 1 {
		candidates = args[0].Load().elements()
	} else {
		for _, a := range args {
			candidates = append(candidates, a.Load())
		}
	}
	if len(candidates) == 0 {
		raise(ValueError, "%s() arg is an empty sequence", name)
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if compare(op, c, best) == want {
			best = c
		}
	}
	return transient(best)
}

func Min(args ...*Object) *Object { return extremum("min", "<", -1, args) }
func Max(args ...*Object) *Object { return extremum("max", ">", 1, args) }

// Sum adds up the elements of an iterable, starting from 0.
func Sum(xs *Object) *Object {
	total := intValue(0)
	for _, e := range xs.Load().elements() {
		total = add(total, e)
	}
	return transient(total)
}

// Sorted returns a new ascending list of the elements of xs.
func Sorted(xs *Object) *Object {
	elems := xs.Load().elements()
	sortValues(elems)
	return transient(listOf(elems))
}

func sortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool {
		return compare("<", vs[i], vs[j]) < 0
	})
}
