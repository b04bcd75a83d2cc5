package list

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sctp-dsai/lessonctl/cmd/util"
	"github.com/sctp-dsai/lessonctl/pkg/catalog"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// New creates a new `list` command.
func New() *cobra.Command {
	var module string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the lessons in the catalog",
		Run: func(_ *cobra.Command, _ []string) {
			userConfig, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			var lessons []catalog.Lesson
			if module != "" {
				lessons = cat.ByModule(module)
			} else {
				lessons = cat.Lessons()
			}
			if len(lessons) == 0 {
				fmt.Println("No lessons found.")
				return
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
			fmt.Fprintln(w, "NUMBER\tFOLDER\tLAST SYNCED\tSTATUS")
			for _, lesson := range lessons {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", lesson.Number,
					lesson.Folder, lastSynced(lesson),
					status(userConfig.LessonsRoot, lesson))
			}
			w.Flush()
		},
	}
	cmd.Flags().StringVar(&module, "module", "",
		"Only list lessons in the given module")
	return cmd
}

func lastSynced(lesson catalog.Lesson) string {
	if lesson.LastSynced == "" {
		return "never"
	}
	return lesson.LastSynced
}

func status(lessonsRoot string, lesson catalog.Lesson) string {
	exists, err := afero.DirExists(fs, lesson.Path(lessonsRoot))
	if err != nil || !exists {
		return "missing"
	}
	if lesson.HasCustomChanges {
		return "custom changes"
	}
	return "ok"
}
