package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

var testLesson = Lesson{
	Folder:     "lesson1_1_intro",
	Name:       "intro",
	Number:     "1.1",
	SourceRepo: "https://example.com/intro.git",
	AddedDate:  "2026-03-01",
	Module:     "1",
}

func TestOpenMissingFile(t *testing.T) {
	fs = afero.NewMemMapFs()

	handle, err := Open("/lessons-metadata.json")
	assert.NoError(t, err)
	assert.Empty(t, handle.Lessons())
	assert.Empty(t, handle.Patterns())
}

func TestPersistAndReload(t *testing.T) {
	fs = afero.NewMemMapFs()
	now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	}

	handle, err := Open("/lessons-metadata.json")
	assert.NoError(t, err)
	assert.NoError(t, handle.Add(testLesson))
	handle.SetPatterns([]string{"*.local.*"})
	assert.NoError(t, handle.Persist())

	reopened, err := Open("/lessons-metadata.json")
	assert.NoError(t, err)
	assert.Equal(t, []Lesson{testLesson}, reopened.Lessons())
	assert.Equal(t, []string{"*.local.*"}, reopened.Patterns())

	contents, err := afero.ReadFile(fs, "/lessons-metadata.json")
	assert.NoError(t, err)

	var onDisk Catalog
	assert.NoError(t, json.Unmarshal(contents, &onDisk))
	assert.Equal(t, SupportedVersion, onDisk.Version)
	assert.Equal(t, "2026-03-14T10:30:00Z", onDisk.LastUpdated)
}

func TestOpenIncompatibleVersion(t *testing.T) {
	fs = afero.NewMemMapFs()
	err := afero.WriteFile(fs, "/lessons-metadata.json",
		[]byte(`{"version": "2.0.0"}`), 0644)
	assert.NoError(t, err)

	_, err = Open("/lessons-metadata.json")
	assert.Error(t, err)
}

func TestOpenCompatibleMinorVersion(t *testing.T) {
	fs = afero.NewMemMapFs()
	err := afero.WriteFile(fs, "/lessons-metadata.json",
		[]byte(`{"version": "1.2.0"}`), 0644)
	assert.NoError(t, err)

	_, err = Open("/lessons-metadata.json")
	assert.NoError(t, err)
}

func TestAddRejectsDuplicateFolders(t *testing.T) {
	fs = afero.NewMemMapFs()

	handle, err := Open("/lessons-metadata.json")
	assert.NoError(t, err)
	assert.NoError(t, handle.Add(testLesson))
	assert.Error(t, handle.Add(testLesson))
	assert.Len(t, handle.Lessons(), 1)
}

func TestUpdatePersists(t *testing.T) {
	fs = afero.NewMemMapFs()
	now = time.Now

	handle, err := Open("/lessons-metadata.json")
	assert.NoError(t, err)
	assert.NoError(t, handle.Add(testLesson))

	synced := testLesson
	synced.LastSynced = "2026-03-14"
	synced.HasCustomChanges = true
	assert.NoError(t, handle.Update(synced))

	// Update writes through to disk without an explicit Persist.
	reopened, err := Open("/lessons-metadata.json")
	assert.NoError(t, err)
	assert.Equal(t, []Lesson{synced}, reopened.Lessons())
}

func TestUpdateUnknownLesson(t *testing.T) {
	fs = afero.NewMemMapFs()

	handle, err := Open("/lessons-metadata.json")
	assert.NoError(t, err)
	assert.Error(t, handle.Update(testLesson))
}

func TestQueries(t *testing.T) {
	fs = afero.NewMemMapFs()

	handle, err := Open("/lessons-metadata.json")
	assert.NoError(t, err)

	pandas := Lesson{
		Folder:      "lesson2_1_pandas",
		Name:        "pandas",
		Number:      "2.1",
		Module:      "2",
		Description: "Dataframes and cleaning",
		LastSynced:  "2026-03-14",
	}
	numpy := Lesson{
		Folder:           "lesson2_2_numpy",
		Name:             "numpy",
		Number:           "2.2",
		Module:           "2",
		Description:      "Arrays",
		HasCustomChanges: true,
	}
	assert.NoError(t, handle.Add(testLesson))
	assert.NoError(t, handle.Add(pandas))
	assert.NoError(t, handle.Add(numpy))

	assert.Equal(t, []Lesson{pandas, numpy}, handle.ByModule("2"))
	assert.Empty(t, handle.ByModule("9"))

	// Search is case-insensitive over both name and description.
	assert.Equal(t, []Lesson{pandas}, handle.Search("PANDAS"))
	assert.Equal(t, []Lesson{pandas}, handle.Search("cleaning"))
	assert.Empty(t, handle.Search("graphs"))

	got, ok := handle.Get("lesson2_2_numpy")
	assert.True(t, ok)
	assert.Equal(t, numpy, got)
	_, ok = handle.Get("nope")
	assert.False(t, ok)

	stats := handle.Stats("2026-03-14")
	assert.Equal(t, 3, stats.TotalLessons)
	assert.Equal(t, map[string]int{"1": 1, "2": 2}, stats.ByModule)
	assert.Equal(t, 1, stats.WithCustomChanges)
	assert.Equal(t, 1, stats.SyncedOn)
}
