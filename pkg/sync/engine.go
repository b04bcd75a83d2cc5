package sync

import (
	"context"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sctp-dsai/lessonctl/pkg/catalog"
	"github.com/sctp-dsai/lessonctl/pkg/errors"
	"github.com/sctp-dsai/lessonctl/pkg/fetch"
	"github.com/sctp-dsai/lessonctl/pkg/preserve"
)

const (
	// dateFormat is the calendar date recorded as a lesson's last synced date.
	dateFormat = "2006-01-02"

	// backupTimestampFormat names the per-sync backup directories.
	backupTimestampFormat = "20060102-150405"
)

// A Catalog provides the lesson records the engine reads and writes. It's
// implemented by catalog.Handle.
type Catalog interface {
	Patterns() []string
	Update(lesson catalog.Lesson) error
}

// An Engine syncs lesson directories from their upstream sources. It's the
// sole mutator of lesson directory contents.
type Engine struct {
	lessonsRoot  string
	patterns     preserve.PatternSet
	fetcher      fetch.Fetcher
	catalog      Catalog
	fetchTimeout time.Duration
	clock        clockwork.Clock
}

// A Result reports the outcome of syncing one lesson.
type Result struct {
	Folder string
	Err    error
}

// Success returns whether the lesson synced cleanly.
func (r Result) Success() bool {
	return r.Err == nil
}

// NewEngine creates an engine that syncs lessons under lessonsRoot. The
// preservation pattern set is compiled once from the catalog, so it's
// immutable for the lifetime of the engine.
func NewEngine(cat Catalog, fetcher fetch.Fetcher, lessonsRoot string,
	fetchTimeout time.Duration) (*Engine, error) {

	patterns, err := preserve.Compile(cat.Patterns())
	if err != nil {
		return nil, errors.WithContext(err, "compile preservation patterns")
	}

	return &Engine{
		lessonsRoot:  lessonsRoot,
		patterns:     patterns,
		fetcher:      fetcher,
		catalog:      cat,
		fetchTimeout: fetchTimeout,
		clock:        clockwork.NewRealClock(),
	}, nil
}

// SyncAll syncs each of the given lessons independently. One lesson's failure
// doesn't abort or corrupt any other lesson's sync. Cancelling the context
// stops the batch between lessons; lessons that weren't reached are simply
// not synced.
func (e *Engine) SyncAll(ctx context.Context, lessons []catalog.Lesson) (
	successes, failures int, results []Result) {

	for _, lesson := range lessons {
		select {
		case <-ctx.Done():
			log.WithField("remaining", len(lessons)-len(results)).
				Info("Sync cancelled")
			return successes, failures, results
		default:
		}

		err := e.SyncOne(ctx, lesson)
		results = append(results, Result{Folder: lesson.Folder, Err: err})
		if err != nil {
			failures++
			log.WithError(err).WithField("lesson", lesson.Folder).
				Error("Failed to sync lesson")
			continue
		}
		successes++
		log.WithField("lesson", lesson.Folder).Debug("Synced lesson")
	}
	return successes, failures, results
}

// SyncOne refreshes one lesson directory from its upstream source while
// keeping preserved paths intact. See the package comment for the step
// ordering and failure semantics.
func (e *Engine) SyncOne(ctx context.Context, lesson catalog.Lesson) error {
	lessonPath := lesson.Path(e.lessonsRoot)
	exists, err := afero.DirExists(fs, lessonPath)
	if err != nil {
		return errors.WithContext(err, "stat lesson directory")
	}
	if !exists {
		return errors.DirectoryNotFound{Folder: lesson.Folder, Path: lessonPath}
	}

	// The source comes from the catalog record rather than being re-derived
	// from the lesson's marker file, so the engine isn't coupled to the
	// marker format.
	if lesson.SourceRepo == "" {
		return errors.SourceUnresolvable{Folder: lesson.Folder}
	}

	preserved, err := e.patterns.Match(fs, lessonPath)
	if err != nil {
		return errors.WithContext(err, "match preserved paths")
	}

	backupDir := filepath.Join(lessonPath, preserve.BackupDirName,
		"backup-"+e.clock.Now().Format(backupTimestampFormat))
	if len(preserved) > 0 {
		if err := backupPaths(lessonPath, backupDir, preserved); err != nil {
			return errors.WithContext(err, "backup preserved paths")
		}
		log.WithFields(log.Fields{
			"lesson": lesson.Folder,
			"count":  len(preserved),
		}).Debug("Backed up preserved paths")
	}

	// Fetch into a temporary directory outside the lesson so that a failed
	// fetch can't affect the current contents.
	fetchDir, err := afero.TempDir(fs, "", "lessonctl-fetch")
	if err != nil {
		return errors.WithContext(err, "create fetch directory")
	}
	defer func() {
		if err := fs.RemoveAll(fetchDir); err != nil {
			log.WithError(err).WithField("path", fetchDir).Warn(
				"Failed to clean up fetch directory. This won't affect future syncs.")
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()
	if err := e.fetcher.Fetch(fetchCtx, lesson.SourceRepo, fetchDir); err != nil {
		return errors.FetchFailed{Source: lesson.SourceRepo, Err: err}
	}

	if err := replaceContents(lessonPath, fetchDir); err != nil {
		return errors.ReplaceFailed{Path: lessonPath, Err: err}
	}

	// Restore is strictly the last write, so preserved files always win
	// conflicts against upstream files of the same name.
	if len(preserved) > 0 {
		if err := copyTree(backupDir, lessonPath); err != nil {
			return errors.RestoreIncomplete{Backup: backupDir, Err: err}
		}
	}

	lesson.LastSynced = e.clock.Now().Format(dateFormat)
	lesson.HasCustomChanges = len(preserved) > 0
	if err := e.catalog.Update(lesson); err != nil {
		return errors.CatalogPersistFailed{Err: err}
	}

	// The marker file is redundant with the catalog, so a failed write only
	// warrants a warning.
	if err := WriteLessonInfo(lessonPath, lesson); err != nil {
		log.WithError(err).WithField("lesson", lesson.Folder).Warn(
			"Failed to refresh lesson info file")
	}
	return nil
}

// backupPaths copies each preserved path into the backup directory,
// keeping its path relative to the lesson root so that restoring is a plain
// tree copy back.
func backupPaths(root, backupDir string, preserved []string) error {
	for _, relativePath := range preserved {
		src := filepath.Join(root, relativePath)
		dst := filepath.Join(backupDir, relativePath)
		if err := copyPath(src, dst); err != nil {
			return errors.WithContext(err, "copy "+relativePath)
		}
	}
	return nil
}

// replaceContents deletes every entry directly under the lesson directory
// except the backup location and the lesson info file, and then installs the
// fetched tree. Deleting entry-by-entry keeps the step idempotent: if it's
// interrupted, rerunning the sync converges to the same state.
func replaceContents(lessonPath, fetchDir string) error {
	entries, err := afero.ReadDir(fs, lessonPath)
	if err != nil {
		return errors.WithContext(err, "read lesson directory")
	}

	for _, entry := range entries {
		if entry.Name() == preserve.BackupDirName || entry.Name() == LessonInfoName {
			continue
		}
		if err := fs.RemoveAll(filepath.Join(lessonPath, entry.Name())); err != nil {
			return errors.WithContext(err, "remove "+entry.Name())
		}
	}

	fetched, err := afero.ReadDir(fs, fetchDir)
	if err != nil {
		return errors.WithContext(err, "read fetched directory")
	}

	for _, entry := range fetched {
		src := filepath.Join(fetchDir, entry.Name())
		dst := filepath.Join(lessonPath, entry.Name())
		if err := copyPath(src, dst); err != nil {
			return errors.WithContext(err, "install "+entry.Name())
		}
	}
	return nil
}
