// Package arena provides a page-pooled allocator used by the IR and
// analysis packages to hand out stable, reusable handles instead of
// raw pointers.
//
// Each ir.Function allocates its expression nodes from a Pool. A Pool
// can be released in one shot (Reset); the analysis packages keep
// their own per-function maps and slices instead of pooled records.
package arena

const pageSize = 256

// Pool is a pool of T that can be allocated and reset in bulk. Values
// are handed out by index (an Index, not a pointer). Reset reuses slots
// from the start, so an Index obtained before a Reset refers to
// whatever value is allocated in its slot afterward.
type Pool[T any] struct {
	pages     []*[pageSize]T
	allocated int
}

// Index identifies a value previously returned by Allocate.
type Index int

// NewPool returns an empty Pool.
func NewPool[T any]() Pool[T] {
	return Pool[T]{}
}

// Allocated returns the number of values allocated since the last Reset.
func (p *Pool[T]) Allocated() int {
	return p.allocated
}

// Allocate returns the Index of a newly zero-valued T.
func (p *Pool[T]) Allocate() Index {
	page, slot := p.allocated/pageSize, p.allocated%pageSize
	if page == len(p.pages) {
		p.pages = append(p.pages, new([pageSize]T))
	}
	var zero T
	p.pages[page][slot] = zero
	idx := Index(p.allocated)
	p.allocated++
	return idx
}

// View returns a pointer to the value at idx. The pointer is valid
// until the next Reset.
func (p *Pool[T]) View(idx Index) *T {
	page, slot := int(idx)/pageSize, int(idx)%pageSize
	return &p.pages[page][slot]
}

// Reset releases all allocated values, retaining the underlying pages
// for reuse by the next function processed on this goroutine.
func (p *Pool[T]) Reset() {
	p.allocated = 0
}
