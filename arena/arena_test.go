package arena

import "testing"

func TestBufferAllocAndReset(t *testing.T) {
	b := NewBuffer(32)

	s1, err := b.Alloc(8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if len(s1) != 8 || b.Used() != 8 {
		t.Fatalf("len/used = %d/%d", len(s1), b.Used())
	}
	s1[0] = 0xff

	m := b.Mark()
	if _, err := b.Alloc(8); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	b.Reset(m)
	if b.Used() != 8 {
		t.Errorf("Used = %d after reset, want 8", b.Used())
	}

	// Reuse of the reset region must hand back zeroed memory.
	s2, err := b.Alloc(8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	for i, v := range s2 {
		if v != 0 {
			t.Fatalf("reused byte %d = %#x, want 0", i, v)
		}
	}
}

func TestBufferOutOfMemory(t *testing.T) {
	b := NewBuffer(16)
	if _, err := b.Alloc(16); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if _, err := b.Alloc(1); err == nil {
		t.Error("expected out of memory")
	}
	if _, err := b.Alloc(-1); err == nil {
		t.Error("expected error on negative size")
	}
}

func TestPoolResetReleasesNewestFirst(t *testing.T) {
	var released []int
	p := NewPool(func(v int) { released = append(released, v) })

	p.Add(1)
	m := p.Mark()
	p.Add(2)
	p.Add(3)
	if p.Len() != 3 {
		t.Fatalf("Len = %d", p.Len())
	}

	p.Reset(m)
	if p.Len() != 1 || p.At(0) != 1 {
		t.Errorf("pool after reset: len %d", p.Len())
	}
	if len(released) != 2 || released[0] != 3 || released[1] != 2 {
		t.Errorf("release order = %v, want [3 2]", released)
	}

	// A second reset to the same mark releases nothing further.
	p.Reset(m)
	if len(released) != 2 {
		t.Errorf("idempotent reset released %v", released)
	}
}

func TestPoolNilReleaseHook(t *testing.T) {
	p := NewPool[string](nil)
	p.Add("a")
	p.Reset(0)
	if p.Len() != 0 {
		t.Errorf("Len = %d", p.Len())
	}
}

func TestTempTracksLiveAllocations(t *testing.T) {
	tr := NewTemp()
	if tr.Live() != 0 {
		t.Fatalf("fresh tracker Live = %d", tr.Live())
	}

	h1 := tr.Put("a")
	h2 := tr.Put("b")
	if tr.Live() != 2 {
		t.Fatalf("Live = %d, want 2", tr.Live())
	}

	tr.Release(h1)
	if tr.Live() != 1 {
		t.Errorf("Live = %d after release, want 1", tr.Live())
	}

	// Double release and bogus handles are no-ops.
	tr.Release(h1)
	tr.Release(Handle(999))
	if tr.Live() != 1 {
		t.Errorf("Live = %d, want 1", tr.Live())
	}

	tr.Release(h2)
	if tr.Live() != 0 {
		t.Errorf("Live = %d, want 0", tr.Live())
	}
}
