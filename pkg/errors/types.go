package errors

import (
	"fmt"
)

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// DirectoryNotFound is returned when a lesson's directory doesn't exist on
// disk. Nothing has been mutated when this error is returned.
type DirectoryNotFound struct {
	Folder string
	Path   string
}

func (err DirectoryNotFound) Error() string {
	return fmt.Sprintf("lesson directory for %q does not exist at %q",
		err.Folder, err.Path)
}

// SourceUnresolvable is returned when the catalog doesn't have a usable
// upstream source for a lesson.
type SourceUnresolvable struct {
	Folder string
}

func (err SourceUnresolvable) Error() string {
	return fmt.Sprintf("no upstream source recorded for lesson %q", err.Folder)
}

// FetchFailed is returned when retrieving a fresh copy of the upstream source
// fails. The lesson directory is untouched when this error is returned.
type FetchFailed struct {
	Source string
	Err    error
}

func (err FetchFailed) Error() string {
	return fmt.Sprintf("fetch %q: %s", err.Source, err.Err)
}

// ReplaceFailed is returned when deleting the old lesson contents or
// installing the fresh copy fails. The directory state is uncertain.
type ReplaceFailed struct {
	Path string
	Err  error
}

func (err ReplaceFailed) Error() string {
	return fmt.Sprintf("replace contents of %q: %s", err.Path, err.Err)
}

// RestoreIncomplete is returned when the upstream content has already
// replaced the lesson directory, but restoring the preserved files failed.
// The preserved files still exist in the backup directory, so operators can
// recover them manually.
type RestoreIncomplete struct {
	Backup string
	Err    error
}

func (err RestoreIncomplete) Error() string {
	return fmt.Sprintf("restore preserved files: %s", err.Err)
}

func (err RestoreIncomplete) FriendlyMessage() string {
	return fmt.Sprintf("The sync replaced the lesson contents, but restoring "+
		"your preserved files failed: %s.\n"+
		"Your files are still available in %q and can be copied back manually.",
		err.Err, err.Backup)
}

// CatalogPersistFailed is returned when the lesson directory was synced
// successfully, but writing the updated catalog failed. The directory and the
// catalog now disagree on the last synced date.
type CatalogPersistFailed struct {
	Err error
}

func (err CatalogPersistFailed) Error() string {
	return fmt.Sprintf("persist catalog: %s", err.Err)
}
