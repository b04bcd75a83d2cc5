package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/sctp-dsai/lessonctl/pkg/errors"
)

// Mocked out for unit testing.
var now = time.Now

// A Handle wraps the on-disk catalog. All mutations go through the handle so
// that writes are serialized even when lessons are synced concurrently.
type Handle struct {
	path string

	lock    sync.Mutex
	catalog Catalog
}

// Open loads the catalog at the given path. A missing file is not an error:
// it loads as an empty catalog so that callers can probe a repository that
// hasn't been set up yet.
func Open(path string) (*Handle, error) {
	handle := &Handle{path: path}
	if err := handle.Reload(); err != nil {
		return nil, err
	}
	return handle, nil
}

// Reload replaces the in-memory catalog with the on-disk contents, discarding
// any unpersisted mutations.
func (h *Handle) Reload() error {
	h.lock.Lock()
	defer h.lock.Unlock()

	contents, err := afero.ReadFile(fs, h.path)
	if err != nil {
		if os.IsNotExist(err) {
			h.catalog = Catalog{Version: SupportedVersion}
			return nil
		}
		return errors.WithContext(err, "read catalog")
	}

	var catalog Catalog
	if err := json.Unmarshal(contents, &catalog); err != nil {
		return errors.WithContext(err, "parse catalog")
	}

	if err := checkVersion(catalog.Version); err != nil {
		return errors.WithContext(err, "check version")
	}

	h.catalog = catalog
	return nil
}

// Persist writes the in-memory catalog back to disk. The write is full-file
// rather than incremental, matching the read in Reload.
func (h *Handle) Persist() error {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.persistLocked()
}

func (h *Handle) persistLocked() error {
	h.catalog.LastUpdated = now().UTC().Format(time.RFC3339)
	if h.catalog.Version == "" {
		h.catalog.Version = SupportedVersion
	}

	contents, err := json.MarshalIndent(h.catalog, "", "  ")
	if err != nil {
		return errors.WithContext(err, "marshal catalog")
	}

	if err := afero.WriteFile(fs, h.path, contents, 0644); err != nil {
		return errors.WithContext(err, "write catalog")
	}
	return nil
}

// Get returns the lesson with the given folder name.
func (h *Handle) Get(folder string) (Lesson, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	for _, lesson := range h.catalog.Lessons {
		if lesson.Folder == folder {
			return lesson, true
		}
	}
	return Lesson{}, false
}

// Lessons returns a copy of all lessons in catalog order.
func (h *Handle) Lessons() []Lesson {
	h.lock.Lock()
	defer h.lock.Unlock()

	lessons := make([]Lesson, len(h.catalog.Lessons))
	copy(lessons, h.catalog.Lessons)
	return lessons
}

// ByModule returns all lessons in the given module, in catalog order.
func (h *Handle) ByModule(module string) (lessons []Lesson) {
	for _, lesson := range h.Lessons() {
		if lesson.Module == module {
			lessons = append(lessons, lesson)
		}
	}
	return lessons
}

// Search returns the lessons whose name or description contains the query,
// ignoring case.
func (h *Handle) Search(query string) (lessons []Lesson) {
	for _, lesson := range h.Lessons() {
		if matchesQuery(lesson, query) {
			lessons = append(lessons, lesson)
		}
	}
	return lessons
}

// Patterns returns the shared preservation pattern set.
func (h *Handle) Patterns() []string {
	h.lock.Lock()
	defer h.lock.Unlock()

	patterns := make([]string, len(h.catalog.PreservationPatterns))
	copy(patterns, h.catalog.PreservationPatterns)
	return patterns
}

// SetPatterns replaces the preservation pattern set. It only affects the
// in-memory catalog until Persist is called.
func (h *Handle) SetPatterns(patterns []string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.catalog.PreservationPatterns = patterns
}

// Add registers a new lesson. Folder names are unique, so adding a lesson
// whose folder is already registered is an error.
func (h *Handle) Add(lesson Lesson) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	for _, existing := range h.catalog.Lessons {
		if existing.Folder == lesson.Folder {
			return fmt.Errorf("lesson %q already exists", lesson.Folder)
		}
	}
	h.catalog.Lessons = append(h.catalog.Lessons, lesson)
	return nil
}

// Update replaces the stored record for the lesson with the same folder name,
// and persists the catalog. Persisting after each update keeps the on-disk
// catalog consistent for the lessons that have been mutated so far, even if a
// batch run is interrupted partway through.
func (h *Handle) Update(lesson Lesson) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	for i, existing := range h.catalog.Lessons {
		if existing.Folder == lesson.Folder {
			h.catalog.Lessons[i] = lesson
			return h.persistLocked()
		}
	}
	return fmt.Errorf("lesson %q is not in the catalog", lesson.Folder)
}

// Stats summarizes the catalog. `today` is used to count the lessons whose
// last sync happened today.
func (h *Handle) Stats(today string) Stats {
	stats := Stats{ByModule: map[string]int{}}
	for _, lesson := range h.Lessons() {
		stats.TotalLessons++
		stats.ByModule[lesson.Module]++
		if lesson.HasCustomChanges {
			stats.WithCustomChanges++
		}
		if lesson.LastSynced == today {
			stats.SyncedOn++
		}
	}
	return stats
}
