package cmd

import "github.com/spf13/cobra"

var searchCmd = &cobra.Command{
	Use:     "search [name]",
	Aliases: []string{"find"},
	Short:   "Search custody by file name",
	Long:    "Search custody for files whose name contains the query and optionally retrieve one of them.",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	query := firstArg(args)
	if query == "" {
		query = s.prompt.Ask("Search for")
	}
	return s.run(cmd, searchOp(query))
}
