package sync

import (
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BiAPoL/biapol-taurus/pkg/datamover"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// Synchronizer mirrors directory trees between the project space and the
// fileserver mount through datamover tree-sync jobs.
type Synchronizer struct {
	dm            *datamover.Client
	fileserverDir string
	projectDir    string

	// scratchDir is the stager's private cache directory. When it lives
	// inside the source root it is excluded from the sync, so staged
	// scratch files never leak into the other tier.
	scratchDir string

	// timeout bounds how long Sync waits for the job. Non-positive waits
	// indefinitely.
	timeout time.Duration
}

// NewSynchronizer creates a Synchronizer. scratchDir may be empty when no
// stager cache needs excluding; a non-positive timeout waits on sync jobs
// indefinitely.
func NewSynchronizer(dm *datamover.Client, fileserverDir, projectDir, scratchDir string,
	timeout time.Duration) *Synchronizer {

	return &Synchronizer{
		dm:            dm,
		fileserverDir: filepath.Clean(fileserverDir),
		projectDir:    filepath.Clean(projectDir),
		scratchDir:    scratchDir,
		timeout:       timeout,
	}
}

// Sync mirrors one tree onto the other according to the request, routed
// through the safety gate. It returns the sync tool's report.
func (s *Synchronizer) Sync(req Request) ([]byte, error) {
	src, dst := s.fileserverDir, s.projectDir
	if req.Direction == ToFileserver {
		src, dst = s.projectDir, s.fileserverDir
	}

	return Enforce(req, src, dst, func(dryRun bool) ([]byte, error) {
		return s.run(req, dryRun, src, dst)
	})
}

func (s *Synchronizer) run(req Request, dryRun bool, src, dst string) ([]byte, error) {
	options := []string{"-av"}
	if !req.OverwriteNewer {
		options = append(options, "--update")
	}
	if req.Delete {
		options = append(options, "--delete")
	}
	if dryRun {
		options = append(options, "--dry-run")
	}
	if exclude, ok := relativeTo(s.scratchDir, src); ok {
		options = append(options, "--exclude="+exclude)
	}

	log.WithFields(log.Fields{
		"direction": req.Direction,
		"options":   options,
		"dryRun":    dryRun,
	}).Debug("Starting directory sync")

	// The trailing separator makes the tool copy the directory's
	// contents rather than the directory itself.
	job, err := s.dm.TreeSync(options, src+string(filepath.Separator), dst)
	if err != nil {
		return nil, errors.WithContext(err, "submit sync job")
	}

	exitCode, err := job.Wait(s.timeout)
	if err != nil {
		return nil, err
	}

	stdout, stderr, err := job.Drain()
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return nil, errors.TransferFailed{Op: "sync", Path: dst, Stderr: stderr}
	}
	return stdout, nil
}

// relativeTo returns path relative to root when path is inside root.
func relativeTo(path, root string) (string, bool) {
	if path == "" {
		return "", false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}
