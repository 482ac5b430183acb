package rt

// span is the arithmetic progression behind range().
type span struct {
	start int64
	stop  int64
	step  int64
}

func newSpan(stop int64) span {
	return span{start: 0, stop: stop, step: 1}
}

func newSpanStartStop(start, stop int64) span {
	return span{start: start, stop: stop, step: 1}
}

func newSpanStartStopStep(start, stop, step int64) span {
	return span{start: start, stop: stop, step: step}
}

// length returns the number of elements in the span
func (r span) length() int64 {
	if r.step > 0 {
		if r.stop <= r.start {
			return 0
		}
		return (r.stop - r.start + r.step - 1) / r.step
	}
	if r.stop >= r.start {
		return 0
	}
	return (r.start - r.stop - r.step - 1) / (-r.step)
}

// at returns the value at index i
func (r span) at(i int64) int64 {
	return r.start + i*r.step
}

func absInt(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
