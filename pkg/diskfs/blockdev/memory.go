// file: pkg/diskfs/blockdev/memory.go

package blockdev

import "fmt"

// MemoryDevice is a diskfs.BlockDevice backed by a byte slice, useful for
// tests that would rather not touch the host filesystem.
type MemoryDevice struct {
	data       []byte
	sectorSize int
	numSectors int
}

// NewMemoryDevice returns a zeroed in-memory device of numSectors
// sectors of sectorSize bytes.
func NewMemoryDevice(sectorSize, numSectors int) *MemoryDevice {
	return &MemoryDevice{
		data:       make([]byte, sectorSize*numSectors),
		sectorSize: sectorSize,
		numSectors: numSectors,
	}
}

func (d *MemoryDevice) SectorSize() int { return d.sectorSize }
func (d *MemoryDevice) NumSectors() int { return d.numSectors }

func (d *MemoryDevice) checkBounds(i int, buf []byte) error {
	if i < 0 || i >= d.numSectors {
		return fmt.Errorf("blockdev: sector %d out of range [0,%d)", i, d.numSectors)
	}
	if len(buf) != d.sectorSize {
		return fmt.Errorf("blockdev: buffer is %d bytes, want %d", len(buf), d.sectorSize)
	}
	return nil
}

// ReadSector reads sector i into buf.
func (d *MemoryDevice) ReadSector(i int, buf []byte) error {
	if err := d.checkBounds(i, buf); err != nil {
		return err
	}
	off := i * d.sectorSize
	copy(buf, d.data[off:off+d.sectorSize])
	return nil
}

// WriteSector writes buf into sector i.
func (d *MemoryDevice) WriteSector(i int, buf []byte) error {
	if err := d.checkBounds(i, buf); err != nil {
		return err
	}
	off := i * d.sectorSize
	copy(d.data[off:off+d.sectorSize], buf)
	return nil
}
