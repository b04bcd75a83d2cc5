package search

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sctp-dsai/lessonctl/cmd/util"
)

// New creates a new `search` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search lessons by name and description",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			_, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			lessons := cat.Search(args[0])
			if len(lessons) == 0 {
				fmt.Printf("No lessons match %q.\n", args[0])
				return
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
			fmt.Fprintln(w, "NUMBER\tFOLDER\tDESCRIPTION")
			for _, lesson := range lessons {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					lesson.Number, lesson.Folder, lesson.Description)
			}
			w.Flush()
		},
	}
}
