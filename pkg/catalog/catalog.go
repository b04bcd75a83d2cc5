package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/afero"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// SupportedVersion is the catalog schema version written by this binary.
// Catalogs with the same major version are considered compatible.
const SupportedVersion = "1.0.0"

// DefaultPreservationPatterns protect the user's own work from being
// overwritten during syncs. They're written into new catalogs by
// `lessonctl setup`.
var DefaultPreservationPatterns = []string{
	"*.local.*",
	"*-custom.*",
	"*-notes.*",
	"my-*",
	"custom-*/",
}

// Lesson is one managed course unit, backed by a single directory and a
// single upstream source.
type Lesson struct {
	// Folder is the name of the lesson's directory under the lessons root.
	// It's unique across all lessons.
	Folder string `json:"folder"`

	Name   string `json:"name"`
	Number string `json:"number"`

	// SourceRepo is the upstream source the lesson is synced from.
	SourceRepo string `json:"source_repo"`

	AddedDate   string `json:"added_date"`
	LastSynced  string `json:"last_synced"`
	Description string `json:"description"`
	Module      string `json:"module"`

	// HasCustomChanges is a hint that the lesson directory contains
	// user-owned files. It's not authoritative -- the actual custom files are
	// discovered by matching the preservation patterns against the directory.
	HasCustomChanges bool `json:"has_custom_changes"`
}

// Path returns the lesson's directory under the given lessons root.
func (l Lesson) Path(lessonsRoot string) string {
	return filepath.Join(lessonsRoot, l.Folder)
}

// Catalog is the persisted collection of all lesson records and the shared
// preservation pattern set. It's the single source of truth between runs.
type Catalog struct {
	Lessons              []Lesson `json:"lessons"`
	LastUpdated          string   `json:"last_updated"`
	Version              string   `json:"version"`
	PreservationPatterns []string `json:"preservation_patterns"`
}

// Stats summarizes the catalog for the status command.
type Stats struct {
	TotalLessons      int
	ByModule          map[string]int
	WithCustomChanges int
	SyncedOn          int
}

func checkVersion(actual string) error {
	actualVersion, err := goversion.NewVersion(actual)
	if err != nil {
		return fmt.Errorf("malformed catalog version %q", actual)
	}

	supported, err := goversion.NewVersion(SupportedVersion)
	if err != nil {
		// SupportedVersion is a constant, so this can't happen.
		return err
	}

	if actualVersion.Segments()[0] != supported.Segments()[0] {
		return fmt.Errorf("catalog version %q is incompatible with the "+
			"supported version %q", actual, SupportedVersion)
	}
	return nil
}

func matchesQuery(l Lesson, query string) bool {
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(l.Name), query) ||
		strings.Contains(strings.ToLower(l.Description), query)
}
