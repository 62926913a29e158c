package core

import "testing"

func TestIndexArrayAddGet(t *testing.T) {
	var a IndexArray

	for i := 0; i < ArrayCapacity; i++ {
		if !a.Add(uint8(i * 2)) {
			t.Fatalf("Add %d failed before capacity", i)
		}
	}

	if a.Add(99) {
		t.Error("Add should fail on a full array")
	}
	if a.Len() != ArrayCapacity {
		t.Errorf("Expected %d entries, got %d", ArrayCapacity, a.Len())
	}

	for i := 0; i < ArrayCapacity; i++ {
		if got := a.Get(i); got != uint8(i*2) {
			t.Errorf("Get(%d) = %d, want %d", i, got, i*2)
		}
	}

	if got := a.Get(ArrayCapacity); got != ArrayInvalid {
		t.Errorf("Get past end = %d, want %d", got, ArrayInvalid)
	}
	if got := a.Get(-1); got != ArrayInvalid {
		t.Errorf("Get(-1) = %d, want %d", got, ArrayInvalid)
	}
}

func TestIndexArrayRemoveCompacts(t *testing.T) {
	var a IndexArray
	for _, v := range []uint8{4, 7, 1, 9} {
		a.Add(v)
	}

	if !a.Remove(1) {
		t.Fatal("Remove(1) failed")
	}

	want := []uint8{4, 1, 9}
	got := a.Entries()
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d = %d, want %d", i, got[i], want[i])
		}
	}

	if a.Remove(3) {
		t.Error("Remove out of range should fail")
	}
	if a.IndexOf(9) != 2 {
		t.Errorf("IndexOf(9) = %d, want 2", a.IndexOf(9))
	}
	if a.IndexOf(7) != -1 {
		t.Error("Removed value still found")
	}
}

func TestIndexArrayRemoveLastFromFull(t *testing.T) {
	var a IndexArray
	for i := 0; i < ArrayCapacity; i++ {
		a.Add(uint8(i))
	}

	if !a.Remove(ArrayCapacity - 1) {
		t.Fatal("Remove of last entry failed")
	}
	if a.Len() != ArrayCapacity-1 {
		t.Errorf("Expected %d entries, got %d", ArrayCapacity-1, a.Len())
	}
	if !a.Add(42) {
		t.Error("Add should succeed after a removal")
	}
}

func TestIndexArraySetRawClamps(t *testing.T) {
	var a IndexArray
	var buf [ArrayCapacity]uint8
	buf[0] = 3

	a.SetRaw(buf, 200)
	if a.Len() != ArrayCapacity {
		t.Errorf("SetRaw should clamp count, got %d", a.Len())
	}

	a.Empty()
	if a.Len() != 0 {
		t.Errorf("Empty left %d entries", a.Len())
	}
}
