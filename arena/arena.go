// Package arena provides the engine's mark/reset allocators. Resources that
// live for the length of a scene are registered in pools and reclaimed in one
// Reset at the scene boundary instead of being released individually.
package arena

import "fmt"

// Mark is a checkpoint in an allocator. Resetting to a mark releases
// everything allocated after it.
type Mark int

// Buffer is a bump allocator over a single backing slice. Alloc hands out
// zeroed sub-slices; Reset drops everything allocated since the mark.
type Buffer struct {
	buf  []byte
	used int
}

// NewBuffer creates a bump buffer with the given capacity in bytes.
func NewBuffer(size int) *Buffer {
	return &Buffer{buf: make([]byte, size)}
}

// Alloc returns a zeroed slice of n bytes from the buffer.
func (b *Buffer) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("arena: negative alloc size %d", n)
	}
	if b.used+n > len(b.buf) {
		return nil, fmt.Errorf("arena: out of memory (%d of %d bytes used, requested %d)", b.used, len(b.buf), n)
	}
	s := b.buf[b.used : b.used+n : b.used+n]
	for i := range s {
		s[i] = 0
	}
	b.used += n
	return s, nil
}

// Used reports the number of allocated bytes.
func (b *Buffer) Used() int { return b.used }

// Mark returns a checkpoint for Reset.
func (b *Buffer) Mark() Mark { return Mark(b.used) }

// Reset releases everything allocated after m.
func (b *Buffer) Reset(m Mark) {
	if int(m) < 0 || int(m) > b.used {
		return
	}
	b.used = int(m)
}

// Pool is a store of resources that are released together. Reset truncates
// the pool back to a mark, optionally running a release hook for each
// dropped item.
type Pool[T any] struct {
	items   []T
	release func(T)
}

// NewPool creates a pool. release may be nil; when set it is called for
// every item dropped by Reset, newest first.
func NewPool[T any](release func(T)) *Pool[T] {
	return &Pool[T]{release: release}
}

// Add stores v and returns its index.
func (p *Pool[T]) Add(v T) int {
	p.items = append(p.items, v)
	return len(p.items) - 1
}

// Len reports the number of live items.
func (p *Pool[T]) Len() int { return len(p.items) }

// At returns the item at index i.
func (p *Pool[T]) At(i int) T { return p.items[i] }

// Mark returns a checkpoint for Reset.
func (p *Pool[T]) Mark() Mark { return Mark(len(p.items)) }

// Reset drops every item added after m.
func (p *Pool[T]) Reset(m Mark) {
	if int(m) < 0 || int(m) > len(p.items) {
		return
	}
	for i := len(p.items) - 1; i >= int(m); i-- {
		if p.release != nil {
			p.release(p.items[i])
		}
		var zero T
		p.items[i] = zero
	}
	p.items = p.items[:int(m)]
}
