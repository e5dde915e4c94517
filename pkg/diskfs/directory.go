// file: pkg/diskfs/directory.go
//
// A directory is a table of <name, header-sector, kind> entries,
// serialised as the contents of a regular file. Directories nest via
// entries of kind KindDirectory; Parent/Child are transient breadcrumbs
// used by FileSystem's navigation operations, not ownership edges (see
// SPEC_FULL.md §7 and spec.md §9.1: these are sector numbers, resolved by
// lookup, never in-memory references).

package diskfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Directory is the in-memory form of one directory's on-disk table.
type Directory struct {
	table  []directoryEntry
	Sector int // the sector holding this directory's own header
	Parent int // parent directory's header sector; -1 at the root
	Child  int // currently-descended child directory's header sector; -1 if none
}

// NewDirectory returns an empty directory with no parent or child set.
func NewDirectory() *Directory {
	return &Directory{Parent: -1, Child: -1}
}

// Find returns the header sector of the entry named name, or -1.
func (d *Directory) Find(name string) int {
	if i := d.indexOf(name); i != -1 {
		return int(d.table[i].sector)
	}
	return -1
}

// FindDir is like Find but only matches entries of kind KindDirectory.
func (d *Directory) FindDir(name string) int {
	i := d.indexOf(name)
	if i == -1 || d.table[i].kind != KindDirectory {
		return -1
	}
	return int(d.table[i].sector)
}

// Kind returns the kind of the entry named name. The second return value
// is false if no such entry exists.
func (d *Directory) Kind(name string) (Kind, bool) {
	i := d.indexOf(name)
	if i == -1 {
		return KindFile, false
	}
	return d.table[i].kind, true
}

func (d *Directory) indexOf(name string) int {
	for i := range d.table {
		if d.table[i].inUse && d.table[i].nameString() == name {
			return i
		}
	}
	return -1
}

// Add appends a new entry. It fails with ErrNameExists if name is
// already present, reusing the first free (not-in-use) slot if one
// exists, or appending otherwise.
func (d *Directory) Add(name string, sector int, kind Kind) error {
	if d.indexOf(name) != -1 {
		return ErrNameExists
	}
	entry, err := newDirectoryEntry(name, sector, kind)
	if err != nil {
		return err
	}
	for i := range d.table {
		if !d.table[i].inUse {
			d.table[i] = entry
			return nil
		}
	}
	d.table = append(d.table, entry)
	return nil
}

// Remove marks the entry named name unused. It fails with ErrNotFound if
// no such entry exists.
func (d *Directory) Remove(name string) error {
	i := d.indexOf(name)
	if i == -1 {
		return ErrNotFound
	}
	d.table[i].inUse = false
	return nil
}

// Rename changes the name of the file entry named oldName to newName.
// It fails with ErrNotFound if oldName doesn't exist, ErrWrongKind if it
// names a directory, and ErrNameExists if newName is already taken.
func (d *Directory) Rename(oldName, newName string) error {
	i := d.indexOf(oldName)
	if i == -1 {
		return ErrNotFound
	}
	if d.table[i].kind != KindFile {
		return ErrWrongKind
	}
	if d.indexOf(newName) != -1 {
		return ErrNameExists
	}
	return d.table[i].setName(newName)
}

// entryInfo describes one live entry, used by List/Print and by the
// recursive walk RemoveDirectory performs.
type entryInfo struct {
	Name   string
	Sector int
	Kind   Kind
}

// Entries returns every in-use entry, in table order.
func (d *Directory) Entries() []entryInfo {
	out := make([]entryInfo, 0, len(d.table))
	for i := range d.table {
		if d.table[i].inUse {
			out = append(out, entryInfo{
				Name:   d.table[i].nameString(),
				Sector: int(d.table[i].sector),
				Kind:   d.table[i].kind,
			})
		}
	}
	return out
}

// List returns a newline-joined list of entry names.
func (d *Directory) List() string {
	s := ""
	for _, e := range d.Entries() {
		s += e.Name + "\n"
	}
	return s
}

// Print returns a verbose dump of the directory's entries.
func (d *Directory) Print() string {
	s := "Directory contents:\n"
	for _, e := range d.Entries() {
		s += fmt.Sprintf("Name: %s, Sector: %d, Kind: %s\n", e.Name, e.Sector, e.Kind)
	}
	return s
}

// --- on-disk encoding: tableSize, sector, Parent, Child, then the table ---

func (d *Directory) toBytes(capacity int) ([]byte, error) {
	buf := new(bytes.Buffer)
	header := []int32{int32(len(d.table)), int32(d.Sector), int32(d.Parent), int32(d.Child)}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("directory: encode header: %w", err)
	}
	for i := range d.table {
		if err := d.table[i].encode(buf); err != nil {
			return nil, err
		}
	}
	if buf.Len() > capacity {
		return nil, fmt.Errorf("directory: %d bytes does not fit this directory's %d-byte allocated capacity", buf.Len(), capacity)
	}
	return buf.Bytes(), nil
}

func directoryFromBytes(data []byte) (*Directory, error) {
	r := bytes.NewReader(data)
	var header [4]int32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("directory: decode header: %w", err)
	}
	tableSize := int(header[0])
	d := &Directory{
		Sector: int(header[1]),
		Parent: int(header[2]),
		Child:  int(header[3]),
		table:  make([]directoryEntry, tableSize),
	}
	for i := 0; i < tableSize; i++ {
		e, err := decodeDirectoryEntry(r)
		if err != nil {
			return nil, err
		}
		d.table[i] = e
	}
	return d, nil
}

const directoryHeaderSize = 4 * 4

// encodedSize reports how many bytes d currently needs on disk.
func (d *Directory) encodedSize() int {
	return directoryHeaderSize + len(d.table)*directoryEntrySize
}
