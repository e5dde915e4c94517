// file: cmd/nachosfs/rm.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove a file",
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
		if err := fs.Remove(name); err != nil {
			return fmt.Errorf("rm %s: %w", args[0], err)
		}
		return nil
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <path>",
	Short: "Recursively remove a directory",
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
		if err := fs.RemoveDirectory(name); err != nil {
			return fmt.Errorf("rmdir %s: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(rmdirCmd)
}
