// file: cmd/nachosfs/print.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Dump the bitmap, root header, and current directory for debugging",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, fs, err := mountImage()
		if err != nil {
			return err
		}
		defer dev.Close()

		out, err := fs.Print()
		if err != nil {
			return fmt.Errorf("print: %w", err)
		}
		cmd.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}
