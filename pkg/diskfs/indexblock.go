// file: pkg/diskfs/indexblock.go

package diskfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// indexBlock is the leaf of an indirect pointer: a sector holding exactly
// indexBlockEntries sector indices and nothing else. Unused entries are
// sentinel -1.
type indexBlock struct {
	entries [indexBlockEntries]int32
}

func newIndexBlock() *indexBlock {
	ib := &indexBlock{}
	for i := range ib.entries {
		ib.entries[i] = -1
	}
	return ib
}

func (ib *indexBlock) toBytes(sectorSize int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, ib.entries); err != nil {
		return nil, fmt.Errorf("index block: encode: %w", err)
	}
	if buf.Len() > sectorSize {
		return nil, fmt.Errorf("index block: %d bytes does not fit in a %d-byte sector", buf.Len(), sectorSize)
	}
	out := make([]byte, sectorSize)
	copy(out, buf.Bytes())
	return out, nil
}

func indexBlockFromBytes(data []byte) (*indexBlock, error) {
	ib := &indexBlock{}
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &ib.entries); err != nil {
		return nil, fmt.Errorf("index block: decode: %w", err)
	}
	return ib, nil
}

func readIndexBlock(dev BlockDevice, sector int) (*indexBlock, error) {
	buf := make([]byte, dev.SectorSize())
	if err := dev.ReadSector(sector, buf); err != nil {
		return nil, err
	}
	return indexBlockFromBytes(buf)
}
