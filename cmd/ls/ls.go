package ls

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BiAPoL/biapol-taurus/cmd/util"
	"github.com/BiAPoL/biapol-taurus/pkg/config"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// New creates a new `ls` command.
func New() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the files in the project space.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(remote)
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false,
		"list the fileserver share instead (submits a datamover listing job)")
	return cmd
}

func run(remote bool) error {
	project, err := config.Parse()
	if err != nil {
		return errors.WithContext(err, "parse config")
	}

	stager, err := util.NewStager(project)
	if err != nil {
		return errors.WithContext(err, "connect tiers")
	}

	var listing []string
	if remote {
		listing, err = stager.ListRemote()
	} else {
		listing, err = stager.ListLocal()
	}
	if err != nil {
		return err
	}

	for _, entry := range listing {
		fmt.Println(entry)
	}
	return nil
}
