package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aweris/pdst"
)

var retrieveCmd = &cobra.Command{
	Use:     "retrieve [file]",
	Aliases: []string{"get"},
	Short:   "Retrieve a file from custody",
	Long:    "Retrieve a file from custody into its location. Existing files are never overwritten; a copy_ file can be written instead.",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runRetrieve,
}

func init() {
	retrieveCmd.Flags().String("location", "", "location the file was stored for (default: working directory)")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	location, _ := cmd.Flags().GetString("location")
	return runOp(cmd, pdst.Retrieve{FileName: firstArg(args), Location: location})
}
