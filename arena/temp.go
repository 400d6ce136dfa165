package arena

// Handle identifies one transient allocation in a Temp tracker.
type Handle int

// Temp tracks transient allocations that must be released before the frame
// (or level load) that made them returns. Unlike Pool, items are released
// individually; Live exposes the outstanding count so the frame loop can
// detect leaks.
type Temp struct {
	live map[Handle]any
	next Handle
}

// NewTemp creates an empty tracker.
func NewTemp() *Temp {
	return &Temp{live: map[Handle]any{}}
}

// Put registers v as a live transient allocation.
func (t *Temp) Put(v any) Handle {
	t.next++
	t.live[t.next] = v
	return t.next
}

// Release drops the allocation behind h. Releasing an unknown or
// already-released handle is a no-op.
func (t *Temp) Release(h Handle) {
	delete(t.live, h)
}

// Live reports the number of outstanding transient allocations.
func (t *Temp) Live() int { return len(t.live) }
