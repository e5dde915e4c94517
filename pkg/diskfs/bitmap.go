// file: pkg/diskfs/bitmap.go

package diskfs

import (
	"fmt"

	"github.com/nachosfs/fs/internal/bitindex"
)

// FreeMap is the device-wide free-space bitmap: one bit per sector, set
// iff the sector is free. It is itself persisted as the contents of a
// regular file (see FileSystem), so it is read and written through an
// *OpenFile like any other file's data.
type FreeMap struct {
	bits       []byte
	numSectors int
}

// NewFreeMap returns a bitmap for a device of numSectors sectors, with
// every sector initially marked free.
func NewFreeMap(numSectors int) *FreeMap {
	nbytes := (numSectors + BitsInByte - 1) / BitsInByte
	fm := &FreeMap{bits: make([]byte, nbytes), numSectors: numSectors}
	for i := range fm.bits {
		fm.bits[i] = 0xFF
	}
	fm.clearTrailingBits()
	return fm
}

// clearTrailingBits marks the padding bits past numSectors (if any) as
// allocated, so NumClear never overcounts.
func (fm *FreeMap) clearTrailingBits() {
	for i := fm.numSectors; i < len(fm.bits)*BitsInByte; i++ {
		fm.clear(i)
	}
}

func (fm *FreeMap) test(i int) bool {
	off, mask := bitindex.Locate(i)
	return fm.bits[off]&mask != 0
}

func (fm *FreeMap) set(i int) {
	off, mask := bitindex.Locate(i)
	fm.bits[off] |= mask
}

func (fm *FreeMap) clear(i int) {
	off, mask := bitindex.Locate(i)
	fm.bits[off] &^= mask
}

// Mark marks sector i allocated unconditionally. Used at format time to
// claim the well-known header sectors.
func (fm *FreeMap) Mark(i int) {
	fm.clear(i)
}

// Clear frees sector i.
func (fm *FreeMap) Clear(i int) {
	if i < 0 || i >= fm.numSectors {
		return
	}
	fm.set(i)
}

// Find clears and returns the lowest-numbered free sector, or -1 if none.
func (fm *FreeMap) Find() int {
	for i := 0; i < fm.numSectors; i++ {
		if fm.test(i) {
			fm.clear(i)
			return i
		}
	}
	return -1
}

// NumClear returns the number of free sectors.
func (fm *FreeMap) NumClear() int {
	n := 0
	for i := 0; i < fm.numSectors; i++ {
		if fm.test(i) {
			n++
		}
	}
	return n
}

// bytes returns the packed bitmap, least-significant-bit-first within
// each byte, as it is persisted on disk.
func (fm *FreeMap) bytes() []byte {
	return fm.bits
}

// freeMapFromBytes rebuilds a FreeMap from its persisted byte form.
func freeMapFromBytes(data []byte, numSectors int) (*FreeMap, error) {
	want := (numSectors + BitsInByte - 1) / BitsInByte
	if len(data) < want {
		return nil, fmt.Errorf("free map: need %d bytes, got %d", want, len(data))
	}
	fm := &FreeMap{bits: append([]byte(nil), data[:want]...), numSectors: numSectors}
	return fm, nil
}

// Print writes a human-readable dump of which sectors are allocated.
func (fm *FreeMap) Print() string {
	s := "Free map contents:\n"
	for i := 0; i < fm.numSectors; i++ {
		if fm.test(i) {
			s += "0"
		} else {
			s += "1"
		}
	}
	return s + "\n"
}
