// file: pkg/diskfs/fileio.go

package diskfs

import (
	"fmt"
	"io"
)

// OpenFile is a handle onto one file's data, addressed through its
// header's ByteToSector translation. Reads and writes are bounds-checked
// against the header's declared length; there is no growth past the size
// fixed at Create (spec.md's Non-goals).
type OpenFile struct {
	dev    BlockDevice
	header *FileHeader
	offset int
}

func newOpenFile(dev BlockDevice, header *FileHeader) *OpenFile {
	return &OpenFile{dev: dev, header: header}
}

// Length returns the file's declared size in bytes.
func (f *OpenFile) Length() int { return f.header.FileLength() }

// Seek repositions the handle, io.Seeker-style.
func (f *OpenFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(f.offset)
	case io.SeekEnd:
		base = int64(f.header.FileLength())
	default:
		return 0, fmt.Errorf("open file: invalid whence %d", whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, fmt.Errorf("open file: negative seek position")
	}
	f.offset = int(pos)
	return pos, nil
}

// ReadAt reads len(p) bytes starting at byte off of the file, sector by
// sector, without disturbing the handle's current offset.
func (f *OpenFile) ReadAt(p []byte, off int64) (int, error) {
	total := f.header.FileLength()
	if int(off) >= total {
		return 0, io.EOF
	}
	sectorSize := f.dev.SectorSize()
	n := 0
	for n < len(p) {
		pos := int(off) + n
		if pos >= total {
			break
		}
		sector, err := f.header.ByteToSector(f.dev, pos)
		if err != nil {
			return n, err
		}
		buf := make([]byte, sectorSize)
		if err := f.dev.ReadSector(sector, buf); err != nil {
			return n, err
		}
		within := pos % sectorSize
		chunk := sectorSize - within
		if chunk > len(p)-n {
			chunk = len(p) - n
		}
		if chunk > total-pos {
			chunk = total - pos
		}
		copy(p[n:n+chunk], buf[within:within+chunk])
		n += chunk
	}
	var err error
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}

// Read implements io.Reader, advancing the handle's offset.
func (f *OpenFile) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, int64(f.offset))
	f.offset += n
	return n, err
}

// WriteAt writes p starting at byte off of the file, sector by sector,
// failing with io.ErrShortWrite if p would run past the file's declared
// length (files don't grow after creation).
func (f *OpenFile) WriteAt(p []byte, off int64) (int, error) {
	total := f.header.FileLength()
	if int(off)+len(p) > total {
		return 0, io.ErrShortWrite
	}
	sectorSize := f.dev.SectorSize()
	n := 0
	for n < len(p) {
		pos := int(off) + n
		sector, err := f.header.ByteToSector(f.dev, pos)
		if err != nil {
			return n, err
		}
		buf := make([]byte, sectorSize)
		within := pos % sectorSize
		if within != 0 || len(p)-n < sectorSize {
			if err := f.dev.ReadSector(sector, buf); err != nil {
				return n, err
			}
		}
		chunk := sectorSize - within
		if chunk > len(p)-n {
			chunk = len(p) - n
		}
		copy(buf[within:within+chunk], p[n:n+chunk])
		if err := f.dev.WriteSector(sector, buf); err != nil {
			return n, err
		}
		n += chunk
	}
	return n, nil
}

// Write implements io.Writer, advancing the handle's offset.
func (f *OpenFile) Write(p []byte) (int, error) {
	n, err := f.WriteAt(p, int64(f.offset))
	f.offset += n
	return n, err
}
