package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

const testConfigPath = "/home/user/.lessonctl.yaml"

func mockConfigPath() {
	homedirExpand = func(_ string) (string, error) {
		return testConfigPath, nil
	}
}

func TestParseUserMissingFile(t *testing.T) {
	fs = afero.NewMemMapFs()
	mockConfigPath()

	config, err := ParseUser()
	assert.NoError(t, err)
	assert.Equal(t, DefaultLessonsRoot, config.LessonsRoot)
	assert.Equal(t, DefaultCatalogPath, config.Catalog)
	assert.Equal(t, 5*time.Minute, config.FetchTimeout())
}

func TestParseUser(t *testing.T) {
	fs = afero.NewMemMapFs()
	mockConfigPath()

	contents := `version: v1alpha1
lessonsRoot: course/lessons
fetchTimeoutSeconds: 60
`
	assert.NoError(t, afero.WriteFile(fs, testConfigPath, []byte(contents), 0644))

	config, err := ParseUser()
	assert.NoError(t, err)
	assert.Equal(t, "course/lessons", config.LessonsRoot)
	assert.Equal(t, time.Minute, config.FetchTimeout())

	// Fields the file doesn't set still get the defaults.
	assert.Equal(t, DefaultCatalogPath, config.Catalog)
}

func TestParseUserBadVersion(t *testing.T) {
	fs = afero.NewMemMapFs()
	mockConfigPath()

	contents := "version: v9000\n"
	assert.NoError(t, afero.WriteFile(fs, testConfigPath, []byte(contents), 0644))

	_, err := ParseUser()
	assert.Error(t, err)
}

func TestParseUserUnknownField(t *testing.T) {
	fs = afero.NewMemMapFs()
	mockConfigPath()

	contents := "version: v1alpha1\nlesonsRoot: typo\n"
	assert.NoError(t, afero.WriteFile(fs, testConfigPath, []byte(contents), 0644))

	_, err := ParseUser()
	assert.Error(t, err)
}

func TestWriteUser(t *testing.T) {
	fs = afero.NewMemMapFs()
	mockConfigPath()

	assert.NoError(t, WriteUser(User{LessonsRoot: "course/lessons"}))

	config, err := ParseUser()
	assert.NoError(t, err)
	assert.Equal(t, "course/lessons", config.LessonsRoot)
	assert.Equal(t, SupportedUserConfigVersion, config.Version)
}
