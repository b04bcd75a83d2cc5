package config

import (
	"time"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/sctp-dsai/lessonctl/pkg/errors"
)

const (
	// UserConfigPath is the default path to the lessonctl user config.
	UserConfigPath = "~/.lessonctl.yaml"

	// InitialUserConfigVersion is the first version of the lessonctl
	// user config. Config files that do not specify a version
	// will default to this version.
	InitialUserConfigVersion = "v1alpha1"

	// SupportedUserConfigVersion is the supported version of the
	// lessonctl user config of the current lessonctl binary.
	SupportedUserConfigVersion = "v1alpha1"

	// DefaultLessonsRoot is the directory that holds the lesson directories.
	// It's resolved relative to the working directory, so running lessonctl
	// from the repository root just works without any configuration.
	DefaultLessonsRoot = "lessons"

	// DefaultCatalogPath is the default location of the catalog record store.
	DefaultCatalogPath = "lessons-metadata.json"

	// DefaultFetchTimeoutSeconds bounds how long a single upstream fetch may
	// block. A stalled fetch fails the one lesson, not the whole batch.
	DefaultFetchTimeoutSeconds = 300
)

// User contains the user's repository-wide configuration. All fields are
// optional; a missing config file just means the defaults.
type User struct {
	Version             string `json:"version,omitempty"`
	LessonsRoot         string `json:"lessonsRoot,omitempty"`
	Catalog             string `json:"catalog,omitempty"`
	FetchTimeoutSeconds int    `json:"fetchTimeoutSeconds,omitempty"`
}

func (u User) getVersion() string {
	return u.Version
}

// FetchTimeout returns the per-fetch timeout as a duration.
func (u User) FetchTimeout() time.Duration {
	return time.Duration(u.FetchTimeoutSeconds) * time.Second
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// ParseUser attempts to parse the User stored in the default path. A missing
// config file is not an error: the defaults are returned instead.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config := User{Version: InitialUserConfigVersion}
	if err := parseConfig(path, &config, SupportedUserConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); !ok {
			return User{}, errors.WithContext(err, "parse")
		}
	}

	if config.LessonsRoot == "" {
		config.LessonsRoot = DefaultLessonsRoot
	}
	if config.Catalog == "" {
		config.Catalog = DefaultCatalogPath
	}
	if config.FetchTimeoutSeconds == 0 {
		config.FetchTimeoutSeconds = DefaultFetchTimeoutSeconds
	}
	return config, nil
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetUserConfigPath returns the path to the user's global lessonctl
// configuration. This path is expanded, so it can be directly passed to file
// operations.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}
