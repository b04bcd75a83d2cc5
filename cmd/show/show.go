package show

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sctp-dsai/lessonctl/cmd/util"
	"github.com/sctp-dsai/lessonctl/pkg/errors"
	"github.com/sctp-dsai/lessonctl/pkg/preserve"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// New creates a new `show` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "show LESSON",
		Short: "Show the details of one lesson",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			userConfig, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			lesson, ok := cat.Get(args[0])
			if !ok {
				util.HandleFatalError(errors.NewFriendlyError(
					"Lesson %q is not in the catalog.\n"+
						"Run `lessonctl list` to see the registered lessons.",
					args[0]))
			}

			fmt.Printf("Folder:       %s\n", lesson.Folder)
			fmt.Printf("Name:         %s\n", lesson.Name)
			fmt.Printf("Number:       %s\n", lesson.Number)
			fmt.Printf("Module:       %s\n", lesson.Module)
			fmt.Printf("Source:       %s\n", lesson.SourceRepo)
			fmt.Printf("Added:        %s\n", lesson.AddedDate)
			if lesson.LastSynced == "" {
				fmt.Println("Last synced:  never")
			} else {
				fmt.Printf("Last synced:  %s\n", lesson.LastSynced)
			}
			if lesson.Description != "" {
				fmt.Printf("Description:  %s\n", lesson.Description)
			}

			patterns, err := preserve.Compile(cat.Patterns())
			if err != nil {
				util.HandleFatalError(errors.WithContext(err,
					"compile preservation patterns"))
			}
			preserved, err := patterns.Match(fs, lesson.Path(userConfig.LessonsRoot))
			if err != nil {
				util.HandleFatalError(errors.WithContext(err,
					"scan for custom files"))
			}
			if len(preserved) == 0 {
				fmt.Println("Custom files: none")
				return
			}
			fmt.Println("Custom files:")
			for _, path := range preserved {
				fmt.Printf("  %s\n", path)
			}
		},
	}
}
