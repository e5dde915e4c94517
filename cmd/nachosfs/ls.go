// file: cmd/nachosfs/ls.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory's entries",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, fs, err := mountImage()
		if err != nil {
			return err
		}
		defer dev.Close()

		if len(args) == 1 {
			if err := walkTo(fs, args[0]); err != nil {
				return err
			}
		}
		listing, err := fs.List()
		if err != nil {
			return fmt.Errorf("ls: %w", err)
		}
		cmd.Print(listing)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
