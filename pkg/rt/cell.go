package rt

// borrowFlag tracks the borrows active on one shared cell. Positive values
// count readers, -1 marks a writer. The runtime is single-threaded, so a
// conflict can only come from re-entrant access during one evaluation.
type borrowFlag int

func (b *borrowFlag) borrow() {
	if *b < 0 {
		raise(BorrowError, "already mutably borrowed")
	}
	*b++
}

func (b *borrowFlag) unborrow() {
	*b--
}

func (b *borrowFlag) borrowMut() {
	if *b > 0 {
		raise(BorrowError, "already borrowed")
	}
	if *b < 0 {
		raise(BorrowError, "already mutably borrowed")
	}
	*b = -1
}

func (b *borrowFlag) unborrowMut() {
	*b = 0
}

// Cell is a shared, interior-mutable slot holding one Value. Variable
// bindings and container elements are cells.
type Cell struct {
	v    Value
	flag borrowFlag
}

func newCell(v Value) *Cell {
	return &Cell{v: v}
}

// load returns a value copy of the cell's content.
func (c *Cell) load() Value {
	c.flag.borrow()
	defer c.flag.unborrow()
	return c.v
}

// store overwrites the cell's content.
func (c *Cell) store(v Value) {
	c.flag.borrowMut()
	defer c.flag.unborrowMut()
	c.v = v
}
