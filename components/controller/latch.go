package controller

// Latch turns a level into an edge: Run returns true only on the call where
// the value changes from false to true.
type Latch struct {
	val bool
}

func (l *Latch) Run(v bool) bool {
	r := v && !l.val
	l.val = v
	return r
}
