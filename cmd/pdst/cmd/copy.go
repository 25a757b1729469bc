package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aweris/pdst"
)

var copyCmd = &cobra.Command{
	Use:     "copy [file]",
	Aliases: []string{"cp"},
	Short:   "Copy a file as copy_<file>",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, pdst.Copy{FileName: firstArg(args)})
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
}
