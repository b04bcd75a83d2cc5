package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	addCmd "github.com/sctp-dsai/lessonctl/cmd/add"
	customCmd "github.com/sctp-dsai/lessonctl/cmd/custom"
	listCmd "github.com/sctp-dsai/lessonctl/cmd/list"
	searchCmd "github.com/sctp-dsai/lessonctl/cmd/search"
	setupCmd "github.com/sctp-dsai/lessonctl/cmd/setup"
	showCmd "github.com/sctp-dsai/lessonctl/cmd/show"
	statusCmd "github.com/sctp-dsai/lessonctl/cmd/status"
	syncCmd "github.com/sctp-dsai/lessonctl/cmd/sync"
	"github.com/sctp-dsai/lessonctl/cmd/util"
	versionCmd "github.com/sctp-dsai/lessonctl/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "LESSONCTL_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:          "lessonctl",
		Short:        "Manage course lessons synced from upstream repositories",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		addCmd.New(),
		customCmd.New(),
		listCmd.New(),
		searchCmd.New(),
		setupCmd.New(),
		showCmd.New(),
		statusCmd.New(),
		syncCmd.New(),
		versionCmd.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
