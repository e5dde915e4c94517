// file: pkg/diskfs/directoryentry.go

package diskfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Kind distinguishes a directory entry's target.
type Kind bool

const (
	KindFile      Kind = false
	KindDirectory Kind = true
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// directoryEntry is one <name, header-sector, kind> triple in a
// directory's table.
type directoryEntry struct {
	inUse  bool
	sector int32
	name   [FileNameMaxLen + 1]byte
	kind   Kind
}

func newDirectoryEntry(name string, sector int, kind Kind) (directoryEntry, error) {
	if len(name) > FileNameMaxLen {
		return directoryEntry{}, ErrNameTooLong
	}
	e := directoryEntry{inUse: true, sector: int32(sector), kind: kind}
	copy(e.name[:], name)
	return e, nil
}

func (e *directoryEntry) nameString() string {
	i := bytes.IndexByte(e.name[:], 0)
	if i == -1 {
		i = len(e.name)
	}
	return string(e.name[:i])
}

func (e *directoryEntry) setName(name string) error {
	if len(name) > FileNameMaxLen {
		return ErrNameTooLong
	}
	for i := range e.name {
		e.name[i] = 0
	}
	copy(e.name[:], name)
	return nil
}

const directoryEntrySize = 1 + 4 + (FileNameMaxLen + 1) + 1

func (e *directoryEntry) encode(buf *bytes.Buffer) error {
	var inUse byte
	if e.inUse {
		inUse = 1
	}
	var kind byte
	if e.kind == KindDirectory {
		kind = 1
	}
	for _, v := range []interface{}{inUse, e.sector, e.name, kind} {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("directory entry: encode: %w", err)
		}
	}
	return nil
}

func decodeDirectoryEntry(r *bytes.Reader) (directoryEntry, error) {
	var e directoryEntry
	var inUse, kind byte
	if err := binary.Read(r, binary.LittleEndian, &inUse); err != nil {
		return e, fmt.Errorf("directory entry: decode: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &e.sector); err != nil {
		return e, fmt.Errorf("directory entry: decode: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &e.name); err != nil {
		return e, fmt.Errorf("directory entry: decode: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return e, fmt.Errorf("directory entry: decode: %w", err)
	}
	e.inUse = inUse != 0
	e.kind = kind != 0
	return e, nil
}
