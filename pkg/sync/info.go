package sync

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sctp-dsai/lessonctl/pkg/catalog"
)

// LessonInfoName is the reserved marker file in every lesson directory. It
// records the lesson's metadata redundantly with the catalog so that the
// directory is self-describing; the catalog stays authoritative.
const LessonInfoName = "LESSON_INFO.md"

const lessonInfoTemplate = `# %s

## Lesson Information
- **Lesson Number**: %s
- **Source Repository**: %s
- **Added Date**: %s
- **Last Synced**: %s

## Preserved Files
Files matching the preservation patterns in the catalog survive syncs.
Create your own copies (for example ` + "`notebook.local.ipynb`" + `) to keep
your work safe from upstream updates.
`

// WriteLessonInfo writes the lesson's marker file.
func WriteLessonInfo(lessonPath string, lesson catalog.Lesson) error {
	contents := fmt.Sprintf(lessonInfoTemplate, lesson.Folder, lesson.Number,
		lesson.SourceRepo, lesson.AddedDate, lesson.LastSynced)
	return afero.WriteFile(fs,
		filepath.Join(lessonPath, LessonInfoName), []byte(contents), 0644)
}
