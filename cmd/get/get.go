package get

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BiAPoL/biapol-taurus/cmd/util"
	"github.com/BiAPoL/biapol-taurus/pkg/config"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// New creates a new `get` command.
func New() *cobra.Command {
	var timeoutSeconds int
	cmd := &cobra.Command{
		Use:   "get <file>",
		Short: "Stage a file from the fileserver and print its local path.",
		Long: "Resolve a file against the project space and the cache before\n" +
			"falling back to a datamover copy job from the fileserver. The\n" +
			"printed path is directly readable on the compute node.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], time.Duration(timeoutSeconds)*time.Second)
		},
	}
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0,
		"seconds to wait for the copy job (0 waits indefinitely)")
	return cmd
}

func run(name string, timeout time.Duration) error {
	project, err := config.Parse()
	if err != nil {
		return errors.WithContext(err, "parse config")
	}

	stager, err := util.NewStager(project)
	if err != nil {
		return errors.WithContext(err, "connect tiers")
	}

	pp := util.NewProgressPrinter(os.Stderr, fmt.Sprintf("Staging '%s'...", name))
	go pp.Run()

	path, err := stager.ResolveTimeout(name, timeout)
	pp.Stop()
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}
