// file: pkg/diskfs/errors.go

package diskfs

import "errors"

var (
	ErrNoSpace         = errors.New("not enough free sectors")
	ErrNameExists      = errors.New("name already exists in directory")
	ErrNotFound        = errors.New("name not found in directory")
	ErrWrongKind       = errors.New("entry is not of the expected kind")
	ErrRootHasNoParent = errors.New("already at the root directory")
	ErrDirectoryFull   = errors.New("directory has no free entry")
	ErrNameTooLong     = errors.New("name exceeds maximum length")
	ErrSectorTooSmall  = errors.New("sector size too small to hold a file header")
	ErrOutOfRange      = errors.New("sector index out of range")
)
