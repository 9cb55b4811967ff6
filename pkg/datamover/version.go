package datamover

import (
	"regexp"

	version "github.com/hashicorp/go-version"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// MinVersion is the oldest datamover release whose tools accept the flags
// this package generates.
const MinVersion = "20.04"

var versionRegexp = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Version probes the installed datamover release by running
// `dtls --version` and parsing the first version-shaped token of its
// output.
func (dm *Client) Version() (*version.Version, error) {
	job, err := dm.launch("dtls", "--version")
	if err != nil {
		return nil, errors.WithContext(err, "probe datamover version")
	}

	if exitCode, err := job.Wait(-1); err != nil {
		return nil, err
	} else if exitCode != 0 {
		_, stderr, _ := job.Drain()
		return nil, errors.TransferFailed{Op: "version probe", Path: "dtls", Stderr: stderr}
	}

	stdout, _, err := job.Drain()
	if err != nil {
		return nil, err
	}

	raw := versionRegexp.FindString(string(stdout))
	if raw == "" {
		return nil, errors.New("no version in dtls --version output")
	}

	parsed, err := version.NewVersion(raw)
	if err != nil {
		return nil, errors.WithContext(err, "parse datamover version")
	}
	return parsed, nil
}

// CheckCompat fails with a user-facing error when the installed datamover
// release is older than MinVersion.
func (dm *Client) CheckCompat() error {
	installed, err := dm.Version()
	if err != nil {
		return err
	}

	minimum := version.Must(version.NewVersion(MinVersion))
	if installed.LessThan(minimum) {
		return errors.NewFriendlyError(
			"The installed datamover release (%s) is older than the oldest "+
				"supported release (%s).\n"+
				"Please load a newer slurmtools module.", installed, minimum)
	}
	return nil
}
