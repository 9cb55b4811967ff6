package syncdir

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BiAPoL/biapol-taurus/cmd/util"
	"github.com/BiAPoL/biapol-taurus/pkg/config"
	"github.com/BiAPoL/biapol-taurus/pkg/datamover"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
	"github.com/BiAPoL/biapol-taurus/pkg/proc"
	"github.com/BiAPoL/biapol-taurus/pkg/sync"
)

// New creates a new `sync` command.
func New() *cobra.Command {
	var req sync.Request
	var toFileserver bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the fileserver share and the project space.",
		Long: "Mirror one tree onto the other through a datamover tree-sync\n" +
			"job. Requests that delete files, overwrite newer files, or mirror\n" +
			"whole tier roots are only executed with --yes; without it a dry\n" +
			"run reports what would change.",
		RunE: func(_ *cobra.Command, _ []string) error {
			if toFileserver {
				req.Direction = sync.ToFileserver
			}
			return run(req)
		},
	}
	cmd.Flags().BoolVar(&toFileserver, "to-fileserver", false,
		"mirror the project space onto the fileserver (default is the reverse)")
	cmd.Flags().BoolVar(&req.Delete, "delete", false,
		"remove destination files that have no source counterpart")
	cmd.Flags().BoolVar(&req.OverwriteNewer, "overwrite-newer", false,
		"overwrite destination files even when they are newer")
	cmd.Flags().BoolVar(&req.DryRun, "dry-run", false,
		"report intended changes without applying them")
	cmd.Flags().BoolVar(&req.Confirmed, "yes", false,
		"confirm a dangerous sync")
	return cmd
}

func run(req sync.Request) error {
	project, err := config.Parse()
	if err != nil {
		return errors.WithContext(err, "parse config")
	}

	dm := datamover.New(project.DatamoverBin, proc.NewRunner())
	synchronizer := sync.NewSynchronizer(dm, project.Fileserver, project.ProjectSpace, "",
		project.Timeout())

	pp := util.NewProgressPrinter(os.Stderr, fmt.Sprintf("Syncing %s...", req.Direction))
	go pp.Run()

	output, err := synchronizer.Sync(req)
	pp.Stop()
	if err != nil {
		return err
	}

	os.Stdout.Write(output)
	return nil
}
