package fswatch

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/sctp-dsai/lessonctl/pkg/errors"
	"github.com/sctp-dsai/lessonctl/pkg/preserve"
)

func TestGetPathsToWatch(t *testing.T) {
	fs = afero.NewMemMapFs()
	dirs := []string{
		"/lessons/lesson1_1_intro/data",
		"/lessons/lesson1_1_intro/" + preserve.BackupDirName + "/backup-20260314-103000",
	}
	for _, dir := range dirs {
		assert.NoError(t, fs.MkdirAll(dir, 0755))
	}
	err := afero.WriteFile(fs, "/lessons/lesson1_1_intro/notes.local.md",
		[]byte("my notes"), 0644)
	assert.NoError(t, err)

	paths, err := getPathsToWatch("/lessons/lesson1_1_intro")
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"/lessons/lesson1_1_intro",
		"/lessons/lesson1_1_intro/data",
	}, paths)
}

func TestGetPathsToWatchMissingRoot(t *testing.T) {
	fs = afero.NewMemMapFs()

	_, err := getPathsToWatch("/does-not-exist")
	assert.IsType(t, errors.FileNotFound{}, err)
}

func TestGetPathsToWatchNotADirectory(t *testing.T) {
	fs = afero.NewMemMapFs()
	err := afero.WriteFile(fs, "/file", []byte("contents"), 0644)
	assert.NoError(t, err)

	_, err = getPathsToWatch("/file")
	assert.Error(t, err)
}
