// Package datamover wraps the cluster's asynchronous transfer commands
// (dtcp, dtmv, dtrm, dtls, dtrsync). Each operation submits a transfer job
// to the export nodes and returns immediately; callers wait on the
// returned job. The package only assembles argument vectors -- exit codes
// are surfaced to callers, never interpreted here.
package datamover

import (
	"fmt"
	"path/filepath"

	"github.com/BiAPoL/biapol-taurus/pkg/proc"
)

// DefaultExeDir is where the datamover tools are installed on the cluster.
const DefaultExeDir = "/sw/taurus/tools/slurmtools/default/bin"

// Client submits jobs to the datamover.
type Client struct {
	exeDir string
	runner proc.Runner
}

// New creates a client for the datamover tools installed in exeDir. An
// empty exeDir falls back to DefaultExeDir.
func New(exeDir string, runner proc.Runner) *Client {
	if exeDir == "" {
		exeDir = DefaultExeDir
	}
	return &Client{exeDir: exeDir, runner: runner}
}

// Copy submits a copy job from src to dst.
func (dm *Client) Copy(recursive bool, src, dst string) (*proc.Job, error) {
	var args []string
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, src, dst)
	return dm.launch("dtcp", args...)
}

// Remove submits a job deleting path.
func (dm *Client) Remove(recursive bool, path string) (*proc.Job, error) {
	var args []string
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, path)
	return dm.launch("dtrm", args...)
}

// List submits a listing job for path. A positive recurseDepth limits how
// deep the listing recurses; zero or less lists only the path itself.
func (dm *Client) List(path string, recurseDepth int) (*proc.Job, error) {
	var args []string
	if recurseDepth > 0 {
		args = append(args, fmt.Sprintf("-R%d", recurseDepth))
	}
	args = append(args, path)
	return dm.launch("dtls", args...)
}

// Move submits a move job from src to dst.
func (dm *Client) Move(src, dst string) (*proc.Job, error) {
	return dm.launch("dtmv", src, dst)
}

// TreeSync submits a directory mirroring job. The options are passed
// through to the underlying rsync-style tool verbatim.
func (dm *Client) TreeSync(options []string, src, dst string) (*proc.Job, error) {
	args := append(append([]string{}, options...), src, dst)
	return dm.launch("dtrsync", args...)
}

func (dm *Client) launch(tool string, args ...string) (*proc.Job, error) {
	argv := append([]string{filepath.Join(dm.exeDir, tool)}, args...)
	return dm.runner.Launch(argv)
}
