package idgen

import "testing"

func TestRandomInRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := Random()
		if v == 0 || v >= maxID {
			t.Fatalf("Random() = %d, want in [1, %d)", v, maxID)
		}
	}
}

func TestSequenceMonotonic(t *testing.T) {
	var seq Sequence
	prev := uint64(0)
	for i := 0; i < 100; i++ {
		v := seq.Next()
		if v != prev+1 {
			t.Fatalf("Next() = %d, want %d", v, prev+1)
		}
		prev = v
	}
}

func TestSequenceConcurrent(t *testing.T) {
	var seq Sequence
	const n = 500
	done := make(chan uint64, n)
	for i := 0; i < n; i++ {
		go func() { done <- seq.Next() }()
	}
	seen := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		v := <-done
		if seen[v] {
			t.Fatalf("duplicate sequence value %d", v)
		}
		seen[v] = true
	}
}
