package sync

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/buger/goterm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sctp-dsai/lessonctl/cmd/util"
	"github.com/sctp-dsai/lessonctl/pkg/catalog"
	"github.com/sctp-dsai/lessonctl/pkg/errors"
	"github.com/sctp-dsai/lessonctl/pkg/fetch"
	"github.com/sctp-dsai/lessonctl/pkg/sync"
)

// New creates a new `sync` command.
func New() *cobra.Command {
	var all bool
	var module string
	cmd := &cobra.Command{
		Use:   "sync [LESSON]",
		Short: "Sync lessons from their upstream repositories",
		Long: "Refresh lesson directories from their upstream repositories.\n" +
			"Files matching the catalog's preservation patterns are backed up " +
			"before the refresh and restored on top of the new contents, so " +
			"custom work survives the sync.",
		Args: cobra.MaximumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			userConfig, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			lessons, err := selectLessons(cat, args, all, module)
			if err != nil {
				util.HandleFatalError(err)
			}
			if len(lessons) == 0 {
				fmt.Println("No lessons to sync.")
				return
			}

			engine, err := sync.NewEngine(cat, fetch.NewGitFetcher(),
				userConfig.LessonsRoot, userConfig.FetchTimeout())
			if err != nil {
				util.HandleFatalError(err)
			}

			// A first interrupt stops the batch between lessons so that no
			// lesson is left half-replaced. A second interrupt kills the
			// process the usual way.
			ctx, cancel := context.WithCancel(context.Background())
			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			go func() {
				defer util.HandlePanic()
				<-interrupt
				log.Info("Interrupted. Finishing the current lesson, " +
					"then stopping.")
				signal.Stop(interrupt)
				cancel()
			}()

			successes, failures, results := engine.SyncAll(ctx, lessons)
			for _, result := range results {
				printResult(result)
			}
			fmt.Printf("Completed: %d succeeded, %d failed\n",
				successes, failures)
			if failures > 0 {
				util.HandleFatalError(errors.NewFriendlyError(
					"%d lesson(s) failed to sync. See the messages above.",
					failures))
			}
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Sync every lesson in the catalog")
	cmd.Flags().StringVar(&module, "module", "",
		"Sync every lesson in the given module")
	return cmd
}

func selectLessons(cat *catalog.Handle, args []string, all bool,
	module string) ([]catalog.Lesson, error) {

	switch {
	case len(args) == 1:
		lesson, ok := cat.Get(args[0])
		if !ok {
			return nil, errors.NewFriendlyError(
				"Lesson %q is not in the catalog.\n"+
					"Run `lessonctl list` to see the registered lessons.",
				args[0])
		}
		return []catalog.Lesson{lesson}, nil
	case module != "":
		return cat.ByModule(module), nil
	case all:
		return cat.Lessons(), nil
	default:
		return nil, errors.NewFriendlyError(
			"Specify a lesson to sync, or pass --all or --module.")
	}
}

func printResult(result sync.Result) {
	if result.Success() {
		fmt.Printf("%s %s\n",
			goterm.Color("✓", goterm.GREEN), result.Folder)
		return
	}
	fmt.Printf("%s %s: %s\n",
		goterm.Color("✗", goterm.RED), result.Folder,
		errors.GetPrintableMessage(result.Err))
}
