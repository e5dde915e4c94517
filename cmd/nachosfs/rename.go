// file: cmd/nachosfs/rename.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <path> <newname>",
	Short: "Rename a file within its directory",
	Args:  cobra.ExactArgs(2),
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
		if err := fs.Rename(name, args[1]); err != nil {
			return fmt.Errorf("rename %s: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
