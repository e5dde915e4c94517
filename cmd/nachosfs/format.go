// file: cmd/nachosfs/format.go

package main

import (
	"fmt"

	"github.com/nachosfs/fs/pkg/diskfs"
	"github.com/nachosfs/fs/pkg/diskfs/blockdev"
	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Create and format a new disk image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireImagePath(); err != nil {
			return err
		}
		dev, err := blockdev.Create(imagePath, sectorSize, numSectors)
		if err != nil {
			return err
		}
		defer dev.Close()

		if _, err := diskfs.Format(dev); err != nil {
			return fmt.Errorf("format: %w", err)
		}
		cmd.Printf("formatted %s: %d sectors of %d bytes\n", imagePath, numSectors, sectorSize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
