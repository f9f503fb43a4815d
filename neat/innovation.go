package neat

import "sync/atomic"

// Innovation hands out historical markers for connection genes. One
// Innovation is shared by every genome of a run, through Config.Innovation.
type Innovation struct {
	next atomic.Int64
}

// NewInnovation returns a counter whose first Next call yields start.
func NewInnovation(start int64) *Innovation {
	i := &Innovation{}
	i.next.Store(start)
	return i
}

// Next consumes and returns the next innovation number.
func (i *Innovation) Next() int64 {
	return i.next.Add(1) - 1
}

// Peek returns the number the next call to Next will yield.
func (i *Innovation) Peek() int64 {
	return i.next.Load()
}
