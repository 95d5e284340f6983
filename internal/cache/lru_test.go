package cache

import (
	"errors"
	"testing"
)

func TestCapacityRounding(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 1000: 1024, 1024: 1024}
	for in, want := range cases {
		if got := NewLRU[int, int](in).Capacity(); got != want {
			t.Errorf("capacity %d rounded to %d, want %d", in, got, want)
		}
	}
}

func TestGetPut(t *testing.T) {
	c := NewLRU[string, int](4)
	if _, ok := c.Get("a"); ok {
		t.Error("expected a miss on an empty cache")
	}
	c.Put("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("expected hit with 1, got %d %v", v, ok)
	}
	c.Put("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("expected overwritten value 2, got %d", v)
	}
	if c.Len() != 1 {
		t.Errorf("expected one entry, got %d", c.Len())
	}

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Errorf("expected 2 hits 1 miss, got %+v", st)
	}
}

func TestEvictionOrder(t *testing.T) {
	c := NewLRU[int, int](4)
	for i := 0; i < 4; i++ {
		c.Put(i, i)
	}
	// Touch 0 so 1 becomes the oldest.
	c.Get(0)
	c.Put(4, 4)

	if _, ok := c.Get(1); ok {
		t.Error("expected the least recently used entry to be evicted")
	}
	if _, ok := c.Get(0); !ok {
		t.Error("recently touched entry should survive eviction")
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Errorf("expected one eviction, got %d", st.Evictions)
	}
	if c.Len() != 4 {
		t.Errorf("expected a full cache, got %d", c.Len())
	}
}

func TestGetOrCompute(t *testing.T) {
	c := NewLRU[string, int](4)
	calls := 0
	compute := func() (int, error) {
		calls++
		return 7, nil
	}
	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute("k", compute)
		if err != nil {
			t.Fatalf("GetOrCompute: %v", err)
		}
		if v != 7 {
			t.Errorf("expected 7, got %d", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected one compute, got %d", calls)
	}
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	c := NewLRU[string, int](4)
	fail := errors.New("boom")
	calls := 0
	compute := func() (int, error) {
		calls++
		if calls == 1 {
			return 0, fail
		}
		return 9, nil
	}
	if _, err := c.GetOrCompute("k", compute); !errors.Is(err, fail) {
		t.Fatalf("expected the compute error, got %v", err)
	}
	v, err := c.GetOrCompute("k", compute)
	if err != nil {
		t.Fatalf("retry should recompute, got %v", err)
	}
	if v != 9 || calls != 2 {
		t.Errorf("expected recomputed 9 after 2 calls, got %d after %d", v, calls)
	}
}
