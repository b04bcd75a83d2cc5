package add

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sctp-dsai/lessonctl/cmd/util"
	"github.com/sctp-dsai/lessonctl/pkg/catalog"
	"github.com/sctp-dsai/lessonctl/pkg/config"
	"github.com/sctp-dsai/lessonctl/pkg/errors"
	"github.com/sctp-dsai/lessonctl/pkg/fetch"
	"github.com/sctp-dsai/lessonctl/pkg/preserve"
	"github.com/sctp-dsai/lessonctl/pkg/sync"
)

// Mocked out for unit testing.
var (
	fs  = afero.NewOsFs()
	now = time.Now
)

func today() string {
	return now().Format("2006-01-02")
}

// New creates a new `add` command.
func New() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add SOURCE_REPO NUMBER NAME",
		Short: "Add a lesson from an upstream repository",
		Long: "Clone an upstream repository into a new lesson directory and " +
			"register it in the catalog.\n\n" +
			"NUMBER is the lesson's position in the course, in the form " +
			"MODULE.INDEX (for example, 2.3 is the third lesson of module 2).",
		Args: cobra.ExactArgs(3),
		Run: func(_ *cobra.Command, args []string) {
			userConfig, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			lesson, err := Main(context.Background(), userConfig, cat,
				args[0], args[1], args[2], description)
			if err != nil {
				util.HandleFatalError(err)
			}
			fmt.Printf("Added lesson %s\n", lesson.Folder)
		},
	}
	cmd.Flags().StringVar(&description, "description", "",
		"Description recorded for the lesson")
	return cmd
}

// Main clones the source repository into a new lesson directory and registers
// the lesson. It's exported so that `setup --seed` can reuse it for bulk adds.
func Main(ctx context.Context, userConfig config.User, cat *catalog.Handle,
	source, number, name, description string) (catalog.Lesson, error) {

	lesson := catalog.Lesson{
		Folder:      FolderName(number, name),
		Name:        name,
		Number:      number,
		SourceRepo:  source,
		AddedDate:   today(),
		Description: description,
		Module:      moduleOf(number),
	}

	if _, ok := cat.Get(lesson.Folder); ok {
		return catalog.Lesson{}, errors.NewFriendlyError(
			"Lesson %q is already in the catalog.", lesson.Folder)
	}

	lessonPath := lesson.Path(userConfig.LessonsRoot)
	exists, err := afero.DirExists(fs, lessonPath)
	if err != nil {
		return catalog.Lesson{}, errors.WithContext(err, "stat lesson directory")
	}
	if exists {
		return catalog.Lesson{}, errors.NewFriendlyError(
			"The directory %q already exists.\n"+
				"Remove it, or register it with a different number and name.",
			lessonPath)
	}

	log.WithFields(log.Fields{
		"source": source,
		"path":   lessonPath,
	}).Debug("Cloning lesson")

	fetchCtx, cancel := context.WithTimeout(ctx, userConfig.FetchTimeout())
	defer cancel()
	if err := fetch.NewGitFetcher().Fetch(fetchCtx, source, lessonPath); err != nil {
		return catalog.Lesson{}, errors.FetchFailed{Source: source, Err: err}
	}

	backupRoot := filepath.Join(lessonPath, preserve.BackupDirName)
	if err := fs.MkdirAll(backupRoot, 0755); err != nil {
		return catalog.Lesson{}, errors.WithContext(err, "create backup directory")
	}

	if err := sync.WriteLessonInfo(lessonPath, lesson); err != nil {
		return catalog.Lesson{}, errors.WithContext(err, "write lesson info")
	}

	if err := cat.Add(lesson); err != nil {
		return catalog.Lesson{}, err
	}
	if err := cat.Persist(); err != nil {
		return catalog.Lesson{}, errors.CatalogPersistFailed{Err: err}
	}
	return lesson, nil
}

// FolderName derives the lesson's directory name from its number and name.
// Dots in the number are flattened so that the name is shell-friendly.
func FolderName(number, name string) string {
	return "lesson" + strings.ReplaceAll(number, ".", "_") + "_" + name
}

func moduleOf(number string) string {
	if idx := strings.Index(number, "."); idx != -1 {
		return number[:idx]
	}
	return number
}
