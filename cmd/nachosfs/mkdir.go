// file: cmd/nachosfs/mkdir.go

package main

import (
	"fmt"

	"github.com/nachosfs/fs/pkg/diskfs"
	"github.com/spf13/cobra"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory",
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
		if err := fs.Create(name, 0, diskfs.KindDirectory); err != nil {
			return fmt.Errorf("mkdir %s: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}
