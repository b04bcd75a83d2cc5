// Package fswatch notifies callers when lesson directories change on disk.
// It's used to keep the catalog's custom-changes hints current while the
// user works on lessons.
package fswatch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sctp-dsai/lessonctl/pkg/errors"
	"github.com/sctp-dsai/lessonctl/pkg/preserve"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// Watch watches the given lesson directories for changes. It sends an event
// on the returned channel whenever anything within a watched directory
// changes. The reserved backup directory is not watched: the sync engine
// writes backups there, and those writes aren't user activity.
func Watch(roots []string) (chan struct{}, error) {
	var pathsToWatch []string
	for _, root := range roots {
		paths, err := getPathsToWatch(root)
		if err != nil {
			return nil, errors.WithContext(err, "get paths")
		}
		pathsToWatch = append(pathsToWatch, paths...)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithContext(err, "create watcher")
	}

	for _, path := range pathsToWatch {
		if err := watcher.Add(path); err != nil {
			// Close the watcher so that we release the file handlers for the
			// previously added paths.
			if err := watcher.Close(); err != nil {
				log.WithError(err).Warn("Failed to close file watcher")
			}

			return nil, errors.WithContext(err, fmt.Sprintf("watch %q", path))
		}
	}
	return combineUpdates(watcher.Events), nil
}

func combineUpdates(updates <-chan fsnotify.Event) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		for range updates {
			select {
			case combined <- struct{}{}:
			default:
			}
		}
	}()
	return combined
}

// getPathsToWatch returns the directory and all of its subdirectories.
// fsnotify doesn't watch directories recursively, so each subdirectory has to
// be registered individually.
func getPathsToWatch(root string) (paths []string, err error) {
	fi, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: root}
		}
		return nil, errors.WithContext(err, "stat")
	}

	if !fi.IsDir() {
		return nil, errors.New(fmt.Sprintf("%q is not a directory", root))
	}

	err = afero.Walk(fs, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.WithContext(err, "walk error")
		}

		if !fi.IsDir() {
			return nil
		}

		if fi.Name() == preserve.BackupDirName {
			return filepath.SkipDir
		}

		paths = append(paths, path)
		return nil
	})
	return paths, err
}
