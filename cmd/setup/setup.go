package setup

import (
	"context"
	"fmt"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	addCmd "github.com/sctp-dsai/lessonctl/cmd/add"
	"github.com/sctp-dsai/lessonctl/cmd/util"
	"github.com/sctp-dsai/lessonctl/pkg/catalog"
	"github.com/sctp-dsai/lessonctl/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// seedEntry is one lesson in a --seed file.
type seedEntry struct {
	Source      string `json:"source"`
	Number      string `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// New creates a new `setup` command.
func New() *cobra.Command {
	var seedPath string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Initialize the lessons directory and catalog",
		Long: "Create the lessons directory and an initial catalog with the " +
			"default preservation patterns.\n\n" +
			"With --seed, also add each lesson listed in the given YAML " +
			"file. A lesson that fails to add doesn't stop the rest.",
		Run: func(_ *cobra.Command, _ []string) {
			userConfig, cat, err := util.LoadEnvironment()
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := fs.MkdirAll(userConfig.LessonsRoot, 0755); err != nil {
				util.HandleFatalError(errors.WithContext(err,
					"create lessons directory"))
			}

			if len(cat.Patterns()) == 0 {
				cat.SetPatterns(catalog.DefaultPreservationPatterns)
			}
			if err := cat.Persist(); err != nil {
				util.HandleFatalError(errors.CatalogPersistFailed{Err: err})
			}
			fmt.Printf("Initialized %s and %s\n",
				userConfig.LessonsRoot, userConfig.Catalog)

			if seedPath == "" {
				return
			}

			entries, err := parseSeed(seedPath)
			if err != nil {
				util.HandleFatalError(err)
			}

			failures := 0
			for _, entry := range entries {
				_, err := addCmd.Main(context.Background(), userConfig, cat,
					entry.Source, entry.Number, entry.Name, entry.Description)
				if err != nil {
					failures++
					log.WithError(err).WithField("name", entry.Name).
						Error("Failed to add lesson")
					continue
				}
				fmt.Printf("Added %s\n", addCmd.FolderName(entry.Number, entry.Name))
			}
			if failures > 0 {
				util.HandleFatalError(errors.NewFriendlyError(
					"%d lesson(s) from the seed file failed to add.", failures))
			}
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "",
		"YAML file listing lessons to add after setup")
	return cmd
}

func parseSeed(path string) ([]seedEntry, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WithContext(err, "read seed file")
	}

	var entries []seedEntry
	if err := yaml.Unmarshal(contents, &entries); err != nil {
		return nil, errors.NewFriendlyError(
			"The seed file %q could not be parsed.\n"+
				"It should be a YAML list of {source, number, name, "+
				"description} entries.\n\n"+
				"For reference, here is the error from the parser:\n%s",
			path, err)
	}
	return entries, nil
}
