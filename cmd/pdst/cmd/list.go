package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aweris/pdst"
)

var listCmd = &cobra.Command{
	Use:     "list [location]",
	Aliases: []string{"ls"},
	Short:   "List files kept in custody",
	Long:    "List the files kept in custody for a location, the working directory by default.",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, pdst.List{Location: firstArg(args)})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
