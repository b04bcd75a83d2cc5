package sync

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/sctp-dsai/lessonctl/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// copyPath copies the file or directory tree at src to dst, creating parent
// directories as needed.
func copyPath(src, dst string) error {
	fi, err := fs.Stat(src)
	if err != nil {
		return errors.WithContext(err, "stat source")
	}

	if fi.IsDir() {
		return copyTree(src, dst)
	}
	return copyFile(src, dst)
}

func copyTree(src, dst string) error {
	return afero.Walk(fs, src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(src, path)
		if err != nil {
			return errors.WithContext(err, "normalized path")
		}
		target := filepath.Join(dst, relativePath)

		if fi.IsDir() {
			return fs.MkdirAll(target, fi.Mode())
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	dstParent := filepath.Dir(dst)
	dstParentExists, err := afero.DirExists(fs, dstParent)
	if err != nil {
		return errors.WithContext(err, "check if parent exists")
	}

	if !dstParentExists {
		if err := fs.MkdirAll(dstParent, 0755); err != nil {
			return errors.WithContext(err, "make parent")
		}
	}

	srcFile, err := fs.Open(src)
	if err != nil {
		return errors.WithContext(err, "open source")
	}
	defer srcFile.Close()

	fileInfo, err := srcFile.Stat()
	if err != nil {
		return errors.WithContext(err, "stat")
	}

	dstFile, err := fs.Create(dst)
	if err != nil {
		return errors.WithContext(err, "open destination")
	}
	defer dstFile.Close()

	if err := fs.Chmod(dst, fileInfo.Mode()); err != nil {
		return errors.WithContext(err, "set file mode")
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return errors.WithContext(err, "copy")
	}

	// Change the modification time as the last step so that it doesn't get
	// reset by other file operations.
	if err := fs.Chtimes(dst, time.Now(), fileInfo.ModTime()); err != nil {
		return errors.WithContext(err, "set file modtime")
	}
	return nil
}
