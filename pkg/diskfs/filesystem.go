// file: pkg/diskfs/filesystem.go
//
// FileSystem is the top-level object spec.md §2 describes: it owns the
// free-map file, the root-directory file, and the current-working-
// directory file, and wraps the directory/header/bitmap machinery with
// the authoritative, rollback-on-failure operations a caller actually
// uses. Per spec.md §5/§9.7, every exported operation is serialised by a
// single mutex rather than fine-grained locking.

package diskfs

import (
	"fmt"
	"sync"
)

// DefaultDirectoryEntries bounds how many entries a freshly created
// directory can hold before Create starts failing with
// ErrDirectoryFull — directories in this design have a fixed size set at
// creation time, like every other file (spec.md's Non-goals exclude
// growth after create).
const DefaultDirectoryEntries = 64

// DefaultDirectorySize is the byte size a new directory is allocated at,
// sized to hold DefaultDirectoryEntries entries.
func DefaultDirectorySize() int {
	return directoryHeaderSize + DefaultDirectoryEntries*directoryEntrySize
}

// FileSystem is a mounted instance of the on-disk layout described in
// spec.md §3: a free-space bitmap, a root directory anchored at
// RootDirSector, and a notion of "current directory" that naming
// operations resolve against.
type FileSystem struct {
	dev         BlockDevice
	freeMapFile *OpenFile
	rootDirFile *OpenFile
	cwdFile     *OpenFile
	cwdSector   int

	mu sync.Mutex
}

// Format initialises a blank device: an empty free-space bitmap (with
// the well-known header sectors and the bitmap/root-directory files'
// own data pre-claimed) and an empty root directory. It returns a
// FileSystem with the formatted image already mounted.
func Format(dev BlockDevice) (*FileSystem, error) {
	if dev.SectorSize() < headerEncodedSize {
		return nil, ErrSectorTooSmall
	}

	freeMap := NewFreeMap(dev.NumSectors())
	freeMap.Mark(FreeMapSector)
	freeMap.Mark(RootDirSector)

	mapFileSize := (dev.NumSectors() + BitsInByte - 1) / BitsInByte
	mapHdr := NewFileHeader()
	if err := mapHdr.Allocate(freeMap, mapFileSize, dev.SectorSize()); err != nil {
		return nil, fmt.Errorf("format: allocate free-map file: %w", err)
	}
	dirHdr := NewFileHeader()
	if err := dirHdr.Allocate(freeMap, DefaultDirectorySize(), dev.SectorSize()); err != nil {
		return nil, fmt.Errorf("format: allocate root directory file: %w", err)
	}

	if err := mapHdr.FlushIndexBlocks(dev); err != nil {
		return nil, err
	}
	if err := dirHdr.FlushIndexBlocks(dev); err != nil {
		return nil, err
	}
	if err := mapHdr.WriteBack(dev, FreeMapSector); err != nil {
		return nil, err
	}
	if err := dirHdr.WriteBack(dev, RootDirSector); err != nil {
		return nil, err
	}

	freeMapFile := newOpenFile(dev, mapHdr)
	rootDirFile := newOpenFile(dev, dirHdr)

	root := NewDirectory()
	root.Sector = RootDirSector
	if err := writeDirectoryTo(rootDirFile, root); err != nil {
		return nil, err
	}
	if _, err := freeMapFile.WriteAt(freeMap.bytes(), 0); err != nil {
		return nil, err
	}

	return &FileSystem{
		dev:         dev,
		freeMapFile: freeMapFile,
		rootDirFile: rootDirFile,
		cwdFile:     rootDirFile,
		cwdSector:   RootDirSector,
	}, nil
}

// Mount opens the free-map and root-directory files of an already
// formatted device. The current directory starts at the root.
func Mount(dev BlockDevice) (*FileSystem, error) {
	mapHdr := NewFileHeader()
	if err := mapHdr.FetchFrom(dev, FreeMapSector); err != nil {
		return nil, fmt.Errorf("mount: fetch free-map header: %w", err)
	}
	dirHdr := NewFileHeader()
	if err := dirHdr.FetchFrom(dev, RootDirSector); err != nil {
		return nil, fmt.Errorf("mount: fetch root directory header: %w", err)
	}
	freeMapFile := newOpenFile(dev, mapHdr)
	rootDirFile := newOpenFile(dev, dirHdr)
	return &FileSystem{
		dev:         dev,
		freeMapFile: freeMapFile,
		rootDirFile: rootDirFile,
		cwdFile:     rootDirFile,
		cwdSector:   RootDirSector,
	}, nil
}

func (fs *FileSystem) loadFreeMap() (*FreeMap, error) {
	buf := make([]byte, fs.freeMapFile.Length())
	if _, err := fs.freeMapFile.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("load free map: %w", err)
	}
	return freeMapFromBytes(buf, fs.dev.NumSectors())
}

func (fs *FileSystem) writeFreeMap(fm *FreeMap) error {
	_, err := fs.freeMapFile.WriteAt(fm.bytes(), 0)
	return err
}

func loadDirectoryFrom(f *OpenFile) (*Directory, error) {
	buf := make([]byte, f.Length())
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	return directoryFromBytes(buf)
}

func writeDirectoryTo(f *OpenFile, d *Directory) error {
	buf, err := d.toBytes(f.Length())
	if err != nil {
		return err
	}
	_, err = f.WriteAt(buf, 0)
	return err
}

func (fs *FileSystem) currentDirectory() (*Directory, error) {
	return loadDirectoryFrom(fs.cwdFile)
}

func (fs *FileSystem) openFileAt(sector int) (*OpenFile, error) {
	hdr := NewFileHeader()
	if err := hdr.FetchFrom(fs.dev, sector); err != nil {
		return nil, err
	}
	return newOpenFile(fs.dev, hdr), nil
}

// Create adds a new file or directory named name to the current
// directory, with the given size in bytes (ignored for directories,
// which are always sized to DefaultDirectorySize). Every step before the
// final write-back is rolled back on failure by simply not persisting
// the in-memory copies involved — see spec.md §4.4.
func (fs *FileSystem) Create(name string, size int, kind Kind) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if len(name) > FileNameMaxLen {
		return ErrNameTooLong
	}

	dir, err := fs.currentDirectory()
	if err != nil {
		return err
	}
	if dir.Find(name) != -1 {
		return ErrNameExists
	}

	freeMap, err := fs.loadFreeMap()
	if err != nil {
		return err
	}

	headerSector := freeMap.Find()
	if headerSector == -1 {
		return ErrNoSpace
	}

	if err := dir.Add(name, headerSector, kind); err != nil {
		return err
	}
	if dir.encodedSize() > fs.cwdFile.Length() {
		return ErrDirectoryFull
	}

	if kind == KindDirectory {
		size = DefaultDirectorySize()
	}

	hdr := NewFileHeader()
	if err := hdr.Allocate(freeMap, size, fs.dev.SectorSize()); err != nil {
		return err
	}

	if err := hdr.FlushIndexBlocks(fs.dev); err != nil {
		return err
	}
	if err := hdr.WriteBack(fs.dev, headerSector); err != nil {
		return err
	}

	if kind == KindDirectory {
		child := NewDirectory()
		child.Sector = headerSector
		child.Parent = fs.cwdSector
		childFile := newOpenFile(fs.dev, hdr)
		if err := writeDirectoryTo(childFile, child); err != nil {
			return err
		}
	}

	if err := writeDirectoryTo(fs.cwdFile, dir); err != nil {
		return err
	}
	return fs.writeFreeMap(freeMap)
}

// Open returns a handle to the named file's data. It does not
// distinguish files from directories — callers that need that know it
// from the directory listing already.
func (fs *FileSystem) Open(name string) (*OpenFile, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.currentDirectory()
	if err != nil {
		return nil, err
	}
	sector := dir.Find(name)
	if sector == -1 {
		return nil, ErrNotFound
	}
	return fs.openFileAt(sector)
}

// purgeEntry removes name from parent (backed by parentFile), recursing
// into its subtree first if it names a directory, so that sub-entries
// are always released before the entry that contained them — spec.md
// §4.4's "children before parent" ordering.
func (fs *FileSystem) purgeEntry(parent *Directory, parentFile *OpenFile, name string) error {
	sector := parent.Find(name)
	if sector == -1 {
		return ErrNotFound
	}
	kind, _ := parent.Kind(name)

	if kind == KindDirectory {
		childFile, err := fs.openFileAt(sector)
		if err != nil {
			return err
		}
		child, err := loadDirectoryFrom(childFile)
		if err != nil {
			return err
		}
		for _, e := range child.Entries() {
			if err := fs.purgeEntry(child, childFile, e.Name); err != nil {
				return err
			}
		}

		freeMap, err := fs.loadFreeMap()
		if err != nil {
			return err
		}
		hdr := NewFileHeader()
		if err := hdr.FetchFrom(fs.dev, sector); err != nil {
			return err
		}
		hdr.DeallocateDirect(freeMap)
		freeMap.Clear(sector)
		if err := fs.writeFreeMap(freeMap); err != nil {
			return err
		}
	} else {
		freeMap, err := fs.loadFreeMap()
		if err != nil {
			return err
		}
		hdr := NewFileHeader()
		if err := hdr.FetchFrom(fs.dev, sector); err != nil {
			return err
		}
		if err := hdr.Deallocate(freeMap, fs.dev); err != nil {
			return err
		}
		freeMap.Clear(sector)
		if err := fs.writeFreeMap(freeMap); err != nil {
			return err
		}
	}

	if err := parent.Remove(name); err != nil {
		return err
	}
	return writeDirectoryTo(parentFile, parent)
}

// Remove deletes the named file from the current directory. It fails
// with ErrWrongKind if name is a directory — use RemoveDirectory for
// that.
func (fs *FileSystem) Remove(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.currentDirectory()
	if err != nil {
		return err
	}
	kind, ok := dir.Kind(name)
	if !ok {
		return ErrNotFound
	}
	if kind != KindFile {
		return ErrWrongKind
	}
	return fs.purgeEntry(dir, fs.cwdFile, name)
}

// RemoveDirectory recursively removes the named sub-directory and
// everything inside it. It fails with ErrWrongKind if name is a file.
func (fs *FileSystem) RemoveDirectory(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.currentDirectory()
	if err != nil {
		return err
	}
	kind, ok := dir.Kind(name)
	if !ok {
		return ErrNotFound
	}
	if kind != KindDirectory {
		return ErrWrongKind
	}
	return fs.purgeEntry(dir, fs.cwdFile, name)
}

// Rename changes a file's name within the current directory. It fails
// with ErrWrongKind if name is a directory.
func (fs *FileSystem) Rename(oldName, newName string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.currentDirectory()
	if err != nil {
		return err
	}
	if err := dir.Rename(oldName, newName); err != nil {
		return err
	}
	return writeDirectoryTo(fs.cwdFile, dir)
}

// ChangeDirectory descends into the named sub-directory of the current
// directory, special-casing ".." to ascend instead (spec.md §4.4).
func (fs *FileSystem) ChangeDirectory(name string) error {
	if name == ".." {
		return fs.ChangeToParent()
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.currentDirectory()
	if err != nil {
		return err
	}
	sector := dir.FindDir(name)
	if sector == -1 {
		if dir.Find(name) != -1 {
			return ErrWrongKind
		}
		return ErrNotFound
	}

	if dir.Sector == RootDirSector {
		dir.Parent = -1
	}
	dir.Child = sector
	if err := writeDirectoryTo(fs.cwdFile, dir); err != nil {
		return err
	}

	childFile, err := fs.openFileAt(sector)
	if err != nil {
		return err
	}
	child, err := loadDirectoryFrom(childFile)
	if err != nil {
		return err
	}
	child.Parent = dir.Sector
	child.Child = -1
	if err := writeDirectoryTo(childFile, child); err != nil {
		return err
	}

	fs.cwdFile = childFile
	fs.cwdSector = sector
	return nil
}

// ChangeToParent ascends to the parent of the current directory,
// reconciling the parent's own Parent pointer from the grandparent
// rather than trusting a possibly stale value (see SPEC_FULL.md §7).
func (fs *FileSystem) ChangeToParent() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.currentDirectory()
	if err != nil {
		return err
	}
	if dir.Parent == -1 {
		return ErrRootHasNoParent
	}
	parentSector := dir.Parent

	parentFile, err := fs.openFileAt(parentSector)
	if err != nil {
		return err
	}
	parent, err := loadDirectoryFrom(parentFile)
	if err != nil {
		return err
	}
	parent.Child = -1
	if parent.Parent != -1 {
		grandFile, err := fs.openFileAt(parent.Parent)
		if err != nil {
			return err
		}
		grand, err := loadDirectoryFrom(grandFile)
		if err != nil {
			return err
		}
		parent.Parent = grand.Sector
	}

	dir.Child = -1
	if err := writeDirectoryTo(fs.cwdFile, dir); err != nil {
		return err
	}
	if err := writeDirectoryTo(parentFile, parent); err != nil {
		return err
	}

	fs.cwdFile = parentFile
	fs.cwdSector = parentSector
	return nil
}

// List returns the names of every entry in the current directory.
func (fs *FileSystem) List() (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.currentDirectory()
	if err != nil {
		return "", err
	}
	return dir.List(), nil
}

// Print returns a verbose, debugging-oriented dump of the bitmap and
// directory file headers, the free map, and the current directory.
func (fs *FileSystem) Print() (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	mapHdr := NewFileHeader()
	if err := mapHdr.FetchFrom(fs.dev, FreeMapSector); err != nil {
		return "", err
	}
	dirHdr := NewFileHeader()
	if err := dirHdr.FetchFrom(fs.dev, RootDirSector); err != nil {
		return "", err
	}
	freeMap, err := fs.loadFreeMap()
	if err != nil {
		return "", err
	}
	dir, err := fs.currentDirectory()
	if err != nil {
		return "", err
	}

	s := "Bit map file header:\n" + mapHdr.Print(nil)
	s += "Directory file header:\n" + dirHdr.Print(nil)
	s += freeMap.Print()
	s += dir.Print()
	return s, nil
}
