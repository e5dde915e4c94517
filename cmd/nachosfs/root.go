// file: cmd/nachosfs/root.go

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nachosfs/fs/pkg/diskfs"
	"github.com/nachosfs/fs/pkg/diskfs/blockdev"
	"github.com/spf13/cobra"
)

var (
	imagePath  string
	sectorSize int
	numSectors int
)

var rootCmd = &cobra.Command{
	Use:   "nachosfs",
	Short: "Inspect and manipulate nachosfs disk images",
	Long: `nachosfs formats, populates, and inspects disk images that use the
sector-addressable, bitmap-and-header file system implemented by
pkg/diskfs.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nachosfs:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&imagePath, "image", "", "path to the disk image file")
	rootCmd.PersistentFlags().IntVar(&sectorSize, "sector-size", 512, "bytes per sector (format only sets this; other commands must match it)")
	rootCmd.PersistentFlags().IntVar(&numSectors, "sectors", 2048, "number of sectors on the image (format only sets this; other commands must match it)")
}

func requireImagePath() error {
	if imagePath == "" {
		return fmt.Errorf("--image is required")
	}
	return nil
}

// mountImage opens the disk image named by --image for a command that
// operates on an already-formatted image.
func mountImage() (*blockdev.FileDevice, *diskfs.FileSystem, error) {
	if err := requireImagePath(); err != nil {
		return nil, nil, err
	}
	dev, err := blockdev.Open(imagePath, sectorSize, numSectors)
	if err != nil {
		return nil, nil, err
	}
	fs, err := diskfs.Mount(dev)
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	return dev, fs, nil
}

// walkTo descends fs's current directory to the directory named by path,
// a "/"-separated sequence of directory names resolved from wherever fs
// currently stands (callers that want root-relative resolution pass a
// freshly mounted fs, whose current directory starts at the root).
func walkTo(fs *diskfs.FileSystem, path string) error {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		if err := fs.ChangeDirectory(part); err != nil {
			return fmt.Errorf("cd %s: %w", part, err)
		}
	}
	return nil
}

// splitParent separates a "/"-joined path into its parent directory path
// and final element name, the way cmd's per-entry subcommands need to
// resolve "create this name inside that directory".
func splitParent(path string) (dir string, name string) {
	path = strings.Trim(path, "/")
	i := strings.LastIndex(path, "/")
	if i == -1 {
		return "", path
	}
	return path[:i], path[i+1:]
}
