// file: pkg/diskfs/blockdev/file.go
//
// FileDevice backs a diskfs.BlockDevice with a plain host file, the way
// the original Nachos "stub" file system sits on top of a UNIX file
// instead of a real disk controller. Grounded on the teacher's
// hostio.go/reader.go/writer.go os.File-based loading and saving.

package blockdev

import (
	"fmt"
	"os"
)

// FileDevice is a diskfs.BlockDevice backed by a fixed-length host file.
// Every sector is read and written synchronously with os.File.ReadAt/
// WriteAt, so callers never observe partial sectors.
type FileDevice struct {
	f          *os.File
	sectorSize int
	numSectors int
}

// Create creates (truncating if it already exists) a host file sized to
// hold numSectors sectors of sectorSize bytes, and returns a FileDevice
// backed by it.
func Create(path string, sectorSize, numSectors int) (*FileDevice, error) {
	if sectorSize <= 0 || numSectors <= 0 {
		return nil, fmt.Errorf("blockdev: sectorSize and numSectors must be positive")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("blockdev: create %s: %w", path, err)
	}
	if err := f.Truncate(int64(sectorSize) * int64(numSectors)); err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: truncate %s: %w", path, err)
	}
	return &FileDevice{f: f, sectorSize: sectorSize, numSectors: numSectors}, nil
}

// Open opens an existing host file of exactly sectorSize*numSectors
// bytes as a FileDevice.
func Open(path string, sectorSize, numSectors int) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("blockdev: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	want := int64(sectorSize) * int64(numSectors)
	if info.Size() != want {
		f.Close()
		return nil, fmt.Errorf("blockdev: %s is %d bytes, want %d", path, info.Size(), want)
	}
	return &FileDevice{f: f, sectorSize: sectorSize, numSectors: numSectors}, nil
}

// Close releases the underlying host file.
func (d *FileDevice) Close() error {
	return d.f.Close()
}

func (d *FileDevice) SectorSize() int { return d.sectorSize }
func (d *FileDevice) NumSectors() int { return d.numSectors }

func (d *FileDevice) checkBounds(i int, buf []byte) error {
	if i < 0 || i >= d.numSectors {
		return fmt.Errorf("blockdev: sector %d out of range [0,%d)", i, d.numSectors)
	}
	if len(buf) != d.sectorSize {
		return fmt.Errorf("blockdev: buffer is %d bytes, want %d", len(buf), d.sectorSize)
	}
	return nil
}

// ReadSector reads sector i into buf.
func (d *FileDevice) ReadSector(i int, buf []byte) error {
	if err := d.checkBounds(i, buf); err != nil {
		return err
	}
	_, err := d.f.ReadAt(buf, int64(i)*int64(d.sectorSize))
	if err != nil {
		return fmt.Errorf("blockdev: read sector %d: %w", i, err)
	}
	return nil
}

// WriteSector writes buf into sector i.
func (d *FileDevice) WriteSector(i int, buf []byte) error {
	if err := d.checkBounds(i, buf); err != nil {
		return err
	}
	_, err := d.f.WriteAt(buf, int64(i)*int64(d.sectorSize))
	if err != nil {
		return fmt.Errorf("blockdev: write sector %d: %w", i, err)
	}
	return nil
}
