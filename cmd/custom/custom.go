package custom

import (
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sctp-dsai/lessonctl/cmd/util"
	"github.com/sctp-dsai/lessonctl/pkg/catalog"
	"github.com/sctp-dsai/lessonctl/pkg/config"
	"github.com/sctp-dsai/lessonctl/pkg/errors"
	"github.com/sctp-dsai/lessonctl/pkg/fswatch"
	"github.com/sctp-dsai/lessonctl/pkg/preserve"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// New creates a new `custom` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Inspect and track custom files in lesson directories",
	}
	cmd.AddCommand(newPatterns(), newScan(), newWatch())
	return cmd
}

func newPatterns() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Print the preservation patterns",
		Run: func(_ *cobra.Command, _ []string) {
			_, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			patterns := cat.Patterns()
			if len(patterns) == 0 {
				fmt.Println("No preservation patterns are configured. " +
					"Run `lessonctl setup` to install the defaults.")
				return
			}
			for _, pattern := range patterns {
				fmt.Println(pattern)
			}
		},
	}
}

func newScan() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan every lesson for custom files and update the catalog",
		Run: func(_ *cobra.Command, _ []string) {
			userConfig, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := scanAll(userConfig, cat, true); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func newWatch() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch lesson directories and keep custom-change hints current",
		Run: func(_ *cobra.Command, _ []string) {
			userConfig, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			var roots []string
			for _, lesson := range cat.Lessons() {
				roots = append(roots, lesson.Path(userConfig.LessonsRoot))
			}
			if len(roots) == 0 {
				fmt.Println("No lessons to watch.")
				return
			}

			updates, err := fswatch.Watch(roots)
			if err != nil {
				util.HandleFatalError(errors.WithContext(err, "watch lessons"))
			}

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			fmt.Println("Watching lesson directories. Press Ctrl-C to stop.")

			for {
				select {
				case <-interrupt:
					return
				case <-updates:
					if err := scanAll(userConfig, cat, false); err != nil {
						log.WithError(err).Warn("Rescan failed")
					}
				}
			}
		},
	}
}

// scanAll rechecks each lesson directory against the preservation patterns
// and updates the catalog's custom-changes hints. When print is set, the
// matched paths are also written to stdout.
func scanAll(userConfig config.User, cat *catalog.Handle, print bool) error {
	patterns, err := preserve.Compile(cat.Patterns())
	if err != nil {
		return errors.WithContext(err, "compile preservation patterns")
	}

	for _, lesson := range cat.Lessons() {
		preserved, err := patterns.Match(fs, lesson.Path(userConfig.LessonsRoot))
		if err != nil {
			return errors.WithContext(err, "scan "+lesson.Folder)
		}

		if print && len(preserved) > 0 {
			fmt.Printf("%s:\n", lesson.Folder)
			for _, path := range preserved {
				fmt.Printf("  %s\n", path)
			}
		}

		if lesson.HasCustomChanges == (len(preserved) > 0) {
			continue
		}
		lesson.HasCustomChanges = len(preserved) > 0
		if err := cat.Update(lesson); err != nil {
			return errors.CatalogPersistFailed{Err: err}
		}
	}
	return nil
}
