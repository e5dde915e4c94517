// file: pkg/diskfs/block.go

package diskfs

// BlockDevice is the synchronous, sector-addressable store the file
// system is built on. Implementations live outside this package (see
// pkg/diskfs/blockdev) — diskfs never assumes anything about how sectors
// are actually persisted, only that reads and writes are whole-sector and
// block the caller until complete.
type BlockDevice interface {
	// SectorSize returns the fixed size, in bytes, of every sector.
	SectorSize() int
	// NumSectors returns the number of addressable sectors, [0, NumSectors).
	NumSectors() int
	// ReadSector reads sector i into buf, which must be exactly SectorSize() bytes.
	ReadSector(i int, buf []byte) error
	// WriteSector writes buf, which must be exactly SectorSize() bytes, into sector i.
	WriteSector(i int, buf []byte) error
}

// Well-known sectors, fixed for the lifetime of any formatted device.
const (
	FreeMapSector   = 0
	RootDirSector   = 1
)
