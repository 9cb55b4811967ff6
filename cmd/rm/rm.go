package rm

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BiAPoL/biapol-taurus/cmd/util"
	"github.com/BiAPoL/biapol-taurus/pkg/config"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// New creates a new `rm` command.
func New() *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "rm <file>",
		Short: "Remove a file from the project space through a datamover job.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], wait)
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false,
		"wait for the delete job to finish instead of returning immediately")
	return cmd
}

func run(name string, wait bool) error {
	project, err := config.Parse()
	if err != nil {
		return errors.WithContext(err, "parse config")
	}

	stager, err := util.NewStager(project)
	if err != nil {
		return errors.WithContext(err, "connect tiers")
	}

	job, err := stager.Remove(name, wait)
	if err != nil {
		return err
	}

	if job != nil {
		fmt.Printf("Submitted delete job for '%s'.\n", name)
	} else {
		fmt.Printf("Removed '%s'.\n", name)
	}
	return nil
}
