package util

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/sctp-dsai/lessonctl/pkg/catalog"
	"github.com/sctp-dsai/lessonctl/pkg/config"
	"github.com/sctp-dsai/lessonctl/pkg/errors"
)

// HandleFatalError prints the user-facing message for the given error and
// exits with a failing status. The full error chain is logged at debug level
// for verbose runs.
func HandleFatalError(err error) {
	log.Debug(err)
	fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
	os.Exit(1)
}

// HandlePanic logs panics in background goroutines before crashing so that
// they don't disappear silently.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("panic", r).Error("Unexpected internal error")
		os.Exit(1)
	}
}

// LoadEnvironment parses the user config and opens the catalog it points to.
// Most commands start here.
func LoadEnvironment() (config.User, *catalog.Handle, error) {
	userConfig, err := config.ParseUser()
	if err != nil {
		return config.User{}, nil, errors.WithContext(err, "parse user config")
	}

	cat, err := catalog.Open(userConfig.Catalog)
	if err != nil {
		return config.User{}, nil, errors.WithContext(err, "open catalog")
	}
	return userConfig, cat, nil
}
