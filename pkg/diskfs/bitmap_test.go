// file: pkg/diskfs/bitmap_test.go

package diskfs

import "testing"

func TestNewFreeMapAllFree(t *testing.T) {
	fm := NewFreeMap(37)
	if got := fm.NumClear(); got != 37 {
		t.Errorf("NumClear() = %d, want 37", got)
	}
}

func TestFreeMapFindMarksAllocated(t *testing.T) {
	fm := NewFreeMap(4)
	first := fm.Find()
	if first != 0 {
		t.Errorf("Find() = %d, want 0", first)
	}
	if fm.test(0) {
		t.Error("sector 0 still marked free after Find")
	}
	if got := fm.NumClear(); got != 3 {
		t.Errorf("NumClear() = %d, want 3", got)
	}
}

func TestFreeMapFindExhaustion(t *testing.T) {
	fm := NewFreeMap(2)
	fm.Find()
	fm.Find()
	if got := fm.Find(); got != -1 {
		t.Errorf("Find() on exhausted map = %d, want -1", got)
	}
}

func TestFreeMapClearReturnsSector(t *testing.T) {
	fm := NewFreeMap(4)
	s := fm.Find()
	fm.Clear(s)
	if got := fm.NumClear(); got != 4 {
		t.Errorf("NumClear() after Clear = %d, want 4", got)
	}
}

func TestFreeMapMarkIsUnconditional(t *testing.T) {
	fm := NewFreeMap(4)
	fm.Mark(2)
	if got := fm.NumClear(); got != 3 {
		t.Errorf("NumClear() after Mark = %d, want 3", got)
	}
	if fm.test(2) {
		t.Error("sector 2 still marked free after Mark")
	}
}

func TestFreeMapRoundTrip(t *testing.T) {
	fm := NewFreeMap(20)
	fm.Mark(0)
	fm.Mark(1)
	fm.Find()

	data := append([]byte(nil), fm.bytes()...)
	got, err := freeMapFromBytes(data, 20)
	if err != nil {
		t.Fatalf("freeMapFromBytes: %v", err)
	}
	if got.NumClear() != fm.NumClear() {
		t.Errorf("NumClear() after round trip = %d, want %d", got.NumClear(), fm.NumClear())
	}
	for i := 0; i < 20; i++ {
		if got.test(i) != fm.test(i) {
			t.Errorf("sector %d: round trip changed free/allocated state", i)
		}
	}
}

func TestFreeMapTrailingBitsNeverCountAsFree(t *testing.T) {
	// 20 sectors needs 3 bytes (24 bits); the 4 padding bits must never
	// be handed out by Find or counted by NumClear.
	fm := NewFreeMap(20)
	if got := fm.NumClear(); got != 20 {
		t.Fatalf("NumClear() = %d, want 20", got)
	}
	for i := 0; i < 20; i++ {
		fm.Find()
	}
	if got := fm.Find(); got != -1 {
		t.Errorf("Find() after exhausting real sectors = %d, want -1 (padding bits leaked)", got)
	}
}
