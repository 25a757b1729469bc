package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aweris/pdst"
)

var arrestCmd = &cobra.Command{
	Use:     "arrest [file]",
	Aliases: []string{"store"},
	Short:   "Store a file in custody",
	Long:    "Store a file of the working directory in custody. Without a file name the available files are listed. The local file is kept.",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, pdst.Arrest{FileName: firstArg(args)})
	},
}

func init() {
	rootCmd.AddCommand(arrestCmd)
}
