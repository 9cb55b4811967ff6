package put

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/BiAPoL/biapol-taurus/cmd/util"
	"github.com/BiAPoL/biapol-taurus/pkg/codec"
	"github.com/BiAPoL/biapol-taurus/pkg/config"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
	"github.com/BiAPoL/biapol-taurus/pkg/stage"
)

// New creates a new `put` command.
func New() *cobra.Command {
	var toFileserver bool
	var asName string
	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Stage a local file into the project space or onto the fileserver.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], asName, toFileserver)
		},
	}
	cmd.Flags().BoolVar(&toFileserver, "fileserver", false,
		"write onto the fileserver instead of the project space")
	cmd.Flags().StringVar(&asName, "as", "",
		"name under the destination tier (defaults to the file's base name)")
	return cmd
}

func run(localPath, asName string, toFileserver bool) error {
	project, err := config.Parse()
	if err != nil {
		return errors.WithContext(err, "parse config")
	}

	contents, err := os.ReadFile(localPath)
	if err != nil {
		return errors.WithContext(err, "read local file")
	}

	if asName == "" {
		asName = filepath.Base(localPath)
	}

	target := stage.TargetProject
	if toFileserver {
		target = stage.TargetFileserver
	}

	stager, err := util.NewStager(project)
	if err != nil {
		return errors.WithContext(err, "connect tiers")
	}

	return stager.StageTo(target, asName, codec.Text{}, contents)
}
