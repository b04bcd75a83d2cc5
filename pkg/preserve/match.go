// Package preserve decides which paths in a lesson directory are owned by
// the user. A path is preserved when its name matches any pattern in the
// catalog's preservation pattern set, so it must never be deleted or
// overwritten by a sync.
package preserve

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	"github.com/sctp-dsai/lessonctl/pkg/errors"
)

// BackupDirName is the reserved directory inside every lesson that holds
// backups of preserved files. It's never matched by the pattern set so that
// old backups aren't backed up again on each sync.
const BackupDirName = ".custom-changes"

type pattern struct {
	raw string
	g   glob.Glob

	// isDir patterns (trailing separator) match directory names. All other
	// patterns match file names.
	isDir bool
}

// PatternSet is an ordered, compiled set of glob patterns. It's loaded once
// per run and immutable during a sync operation.
type PatternSet struct {
	patterns []pattern
}

// Compile compiles the given glob patterns. A trailing path separator marks a
// directory pattern; everything else is a file pattern. The glob syntax is
// applied literally in both cases.
func Compile(rawPatterns []string) (PatternSet, error) {
	var patterns []pattern
	for _, raw := range rawPatterns {
		isDir := strings.HasSuffix(raw, "/")
		g, err := glob.Compile(strings.TrimSuffix(raw, "/"))
		if err != nil {
			return PatternSet{}, errors.WithContext(err, "compile pattern "+raw)
		}
		patterns = append(patterns, pattern{raw: raw, g: g, isDir: isDir})
	}
	return PatternSet{patterns}, nil
}

// Patterns returns the raw patterns in their original order.
func (set PatternSet) Patterns() (raw []string) {
	for _, p := range set.patterns {
		raw = append(raw, p.raw)
	}
	return raw
}

// Empty returns whether the set contains no patterns.
func (set PatternSet) Empty() bool {
	return len(set.patterns) == 0
}

// Match returns the paths under root that match any pattern in the set,
// relative to root and sorted for deterministic iteration. A path matches
// when its base name matches at least one pattern of the right kind
// (directory patterns against directories, file patterns against files),
// anywhere in the tree.
//
// A nonexistent root returns an empty set rather than an error -- callers use
// Match to probe whether a lesson has any custom work at all. Match never
// mutates the filesystem.
func (set PatternSet) Match(fs afero.Fs, root string) ([]string, error) {
	exists, err := afero.DirExists(fs, root)
	if err != nil {
		return nil, errors.WithContext(err, "stat root")
	}
	if !exists {
		return nil, nil
	}

	var matched []string
	err = afero.Walk(fs, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if fi.IsDir() && fi.Name() == BackupDirName {
			return filepath.SkipDir
		}

		if set.matches(fi.Name(), fi.IsDir()) {
			relativePath, err := filepath.Rel(root, path)
			if err != nil {
				return errors.WithContext(err, "normalized path")
			}
			matched = append(matched, relativePath)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithContext(err, "walk")
	}

	sort.Strings(matched)
	return matched, nil
}

func (set PatternSet) matches(name string, isDir bool) bool {
	for _, p := range set.patterns {
		if p.isDir == isDir && p.g.Match(name) {
			return true
		}
	}
	return false
}
