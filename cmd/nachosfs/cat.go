// file: cmd/nachosfs/cat.go

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a file's contents to stdout",
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
		f, err := fs.Open(name)
		if err != nil {
			return fmt.Errorf("cat %s: %w", args[0], err)
		}
		if _, err := io.Copy(cmd.OutOrStdout(), f); err != nil {
			return fmt.Errorf("cat %s: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
