package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aweris/pdst"
)

var moveCmd = &cobra.Command{
	Use:     "move [file]",
	Aliases: []string{"mv"},
	Short:   "Move a file to a local directory or into custody",
	Long: "Move a file to a subdirectory of the working directory, or into custody. " +
		"A file moved into custody is deleted locally only after the store confirmed it created the entry.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, pdst.Move{FileName: firstArg(args)})
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
