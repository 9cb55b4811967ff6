package version

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/BiAPoL/biapol-taurus/pkg/config"
	"github.com/BiAPoL/biapol-taurus/pkg/datamover"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
	"github.com/BiAPoL/biapol-taurus/pkg/proc"
	"github.com/BiAPoL/biapol-taurus/pkg/version"
)

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version and the installed datamover release.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run()
		},
	}
}

func run() error {
	fmt.Printf("cli version:       %s\n", version.Version)

	// The datamover probe needs the configured tool path, but the CLI
	// version should print even without a config file.
	project, err := config.Parse()
	if err != nil {
		log.WithError(err).Debug("No usable config. Probing the default datamover install.")
	}

	dm := datamover.New(project.DatamoverBin, proc.NewRunner())
	installed, err := dm.Version()
	if err != nil {
		return errors.WithContext(err, "probe datamover")
	}
	fmt.Printf("datamover release: %s\n", installed)

	if err := dm.CheckCompat(); err != nil {
		return err
	}
	return nil
}
