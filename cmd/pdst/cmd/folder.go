package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aweris/pdst"
)

var folderCmd = &cobra.Command{
	Use:   "folder [name]",
	Short: "Store every file of a folder in custody",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, pdst.Folder{Name: firstArg(args)})
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
}
