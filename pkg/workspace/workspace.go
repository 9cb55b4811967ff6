// Package workspace wraps the cluster's workspace allocation tools
// (ws_allocate, ws_release). Workspaces are named, expiring storage
// allocations on the scratch filesystem; this project uses one as the
// cache tier for staged files.
package workspace

import (
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
	"github.com/BiAPoL/biapol-taurus/pkg/proc"
)

// DefaultExeDir is where the workspace tools are installed on the cluster.
const DefaultExeDir = "/usr/bin"

// Allocator requests and releases workspaces.
type Allocator struct {
	exeDir string
	runner proc.Runner
}

// New creates an allocator for the workspace tools installed in exeDir. An
// empty exeDir falls back to DefaultExeDir.
func New(exeDir string, runner proc.Runner) *Allocator {
	if exeDir == "" {
		exeDir = DefaultExeDir
	}
	return &Allocator{exeDir: exeDir, runner: runner}
}

// Allocate requests a workspace with the given name, expiring after the
// given number of days, and returns its path. Allocating an existing
// workspace is not an error -- the tool extends it and prints the same
// path.
func (alloc *Allocator) Allocate(name string, expireInDays int) (string, error) {
	argv := []string{
		filepath.Join(alloc.exeDir, "ws_allocate"),
		name, strconv.Itoa(expireInDays),
	}
	job, err := alloc.runner.Launch(argv)
	if err != nil {
		return "", errors.WithContext(err, "allocate workspace")
	}

	exitCode, err := job.Wait(-1)
	if err != nil {
		return "", err
	}

	stdout, stderr, err := job.Drain()
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		return "", errors.TransferFailed{Op: "allocate workspace", Path: name, Stderr: stderr}
	}

	path := strings.TrimSpace(string(stdout))
	if path == "" {
		return "", errors.New("ws_allocate printed no workspace path")
	}
	return path, nil
}

// Release frees the named workspace. Releasing a workspace that no longer
// exists is success, so teardown paths can call Release unconditionally.
func (alloc *Allocator) Release(name string) error {
	argv := []string{filepath.Join(alloc.exeDir, "ws_release"), name}
	job, err := alloc.runner.Launch(argv)
	if err != nil {
		return errors.WithContext(err, "release workspace")
	}

	exitCode, err := job.Wait(-1)
	if err != nil {
		return err
	}
	if exitCode == 0 {
		return nil
	}

	_, stderr, err := job.Drain()
	if err != nil {
		return err
	}
	if isMissingWorkspace(stderr) {
		log.WithField("workspace", name).Debug("Workspace already released")
		return nil
	}
	return errors.TransferFailed{Op: "release workspace", Path: name, Stderr: stderr}
}

func isMissingWorkspace(stderr []byte) bool {
	msg := strings.ToLower(string(stderr))
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found")
}
