package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	getCmd "github.com/BiAPoL/biapol-taurus/cmd/get"
	lsCmd "github.com/BiAPoL/biapol-taurus/cmd/ls"
	putCmd "github.com/BiAPoL/biapol-taurus/cmd/put"
	rmCmd "github.com/BiAPoL/biapol-taurus/cmd/rm"
	syncCmd "github.com/BiAPoL/biapol-taurus/cmd/syncdir"
	"github.com/BiAPoL/biapol-taurus/cmd/util"
	versionCmd "github.com/BiAPoL/biapol-taurus/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "TAURUS_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:          "taurus",
		Short:        "Stage files between a fileserver share and a cluster project space.",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		getCmd.New(),
		lsCmd.New(),
		putCmd.New(),
		rmCmd.New(),
		syncCmd.New(),
		versionCmd.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
