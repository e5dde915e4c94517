// file: cmd/nachosfs/touch.go

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nachosfs/fs/pkg/diskfs"
	"github.com/spf13/cobra"
)

var (
	touchSize int
	touchFrom string
)

var touchCmd = &cobra.Command{
	Use:   "touch <path>",
	Short: "Create a file, optionally importing its contents from a host file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, fs, err := mountImage()
		if err != nil {
			return err
		}
		defer dev.Close()

		parent, name := splitParent(args[0])
		if err := walkTo(fs, parent); err != nil {
			return err
		}

		var content []byte
		size := touchSize
		if touchFrom != "" {
			content, err = os.ReadFile(touchFrom)
			if err != nil {
				return fmt.Errorf("touch: read %s: %w", touchFrom, err)
			}
			size = len(content)
		}

		if err := fs.Create(name, size, diskfs.KindFile); err != nil {
			return fmt.Errorf("touch %s: %w", args[0], err)
		}
		if content == nil {
			return nil
		}

		f, err := fs.Open(name)
		if err != nil {
			return fmt.Errorf("touch %s: reopen: %w", args[0], err)
		}
		if _, err := f.WriteAt(content, 0); err != nil && err != io.EOF {
			return fmt.Errorf("touch %s: write contents: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	touchCmd.Flags().IntVar(&touchSize, "size", 0, "size in bytes of an empty file (ignored with --from)")
	touchCmd.Flags().StringVar(&touchFrom, "from", "", "host file whose contents become the new file's contents")
	rootCmd.AddCommand(touchCmd)
}
