package status

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/sctp-dsai/lessonctl/cmd/util"
)

// Mocked out for unit testing.
var now = time.Now

// New creates a new `status` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the catalog",
		Run: func(_ *cobra.Command, _ []string) {
			_, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			today := now().Format("2006-01-02")
			stats := cat.Stats(today)
			fmt.Printf("Lessons:             %d\n", stats.TotalLessons)
			fmt.Printf("With custom changes: %d\n", stats.WithCustomChanges)
			fmt.Printf("Synced today:        %d\n", stats.SyncedOn)

			modules := make([]string, 0, len(stats.ByModule))
			for module := range stats.ByModule {
				modules = append(modules, module)
			}
			sort.Strings(modules)
			for _, module := range modules {
				fmt.Printf("Module %s:            %d\n",
					module, stats.ByModule[module])
			}
		},
	}
}
