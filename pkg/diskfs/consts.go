// file: pkg/diskfs/consts.go

package diskfs

import "github.com/nachosfs/fs/internal/bitindex"

const (
	// NumDirect is the width of a file header's sector-pointer vector.
	NumDirect = 32

	// FileNameMaxLen bounds a directory entry's name, not counting the
	// trailing NUL the on-disk encoding reserves.
	FileNameMaxLen = 9

	// BitsInByte is the width of one free-map byte.
	BitsInByte = bitindex.BitsInByte

	// directPointers is how many of the NumDirect slots hold direct data
	// pointers under this package's tier scheme (see SPEC_FULL.md §5).
	directPointers = NumDirect - 3 // 29

	// singleIndirectPointer/doubleIndirectPointer are the fixed dataSectors
	// indices holding the single- and double-indirect block pointers.
	singleIndirectPointer = NumDirect - 3 // 29
	doubleIndirectPointer = NumDirect - 2 // 30

	// maxSingleIndirect is the number of data sectors the direct and
	// single-indirect tiers address together: offsets [0, 61).
	maxSingleIndirect = directPointers + indexBlockEntries // 61

	// indexBlockEntries is the pointer count of one index block.
	indexBlockEntries = 32
)

// headerPointerRoleBoundary documents, for readers, the three pointer
// roles packed into FileHeader.dataSectors under NumDirect=32:
//
//	[0, 29)  direct data sectors
//	29       single-indirect block pointer
//	30       double-indirect outer block pointer
//	31       reserved, always -1
const headerPointerRoleBoundary = directPointers
