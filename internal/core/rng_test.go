package core

import "testing"

func TestSimpleRNGDeterminism(t *testing.T) {
	a := NewSimpleRNG(42)
	b := NewSimpleRNG(42)

	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("sequences diverged at step %d", i)
		}
	}
}

func TestSimpleRNGZeroSeed(t *testing.T) {
	r := NewSimpleRNG(0)
	if r.State() != 1 {
		t.Errorf("Expected zero seed to be replaced by 1, got %d", r.State())
	}
}

func TestSimpleRNGRanges(t *testing.T) {
	r := NewSimpleRNG(7)
	for i := 0; i < 1000; i++ {
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v out of [0,1)", f)
		}
		if n := r.Intn(5); n < 0 || n >= 5 {
			t.Fatalf("Intn(5) = %d out of range", n)
		}
		if v := r.Range(-2, 3); v < -2 || v >= 3 {
			t.Fatalf("Range(-2, 3) = %v out of range", v)
		}
	}
	if r.Intn(0) != 0 {
		t.Error("Intn(0) should be 0")
	}
}

func TestSimpleRNGChanceBounds(t *testing.T) {
	r := NewSimpleRNG(3)
	for i := 0; i < 100; i++ {
		if r.Chance(0) {
			t.Fatal("Chance(0) should never succeed")
		}
		if !r.Chance(1) {
			t.Fatal("Chance(1) should always succeed")
		}
	}
}
