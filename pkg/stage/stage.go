// Package stage implements the tiered file staging policy. A Stager
// resolves logical filenames against three tiers -- the project space on
// the cluster (directly accessible), a private cache subdirectory inside
// an expiring scratch workspace, and the fileserver mount (reachable only
// through datamover jobs) -- and stages files into the cache on a full
// miss.
package stage

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/BiAPoL/biapol-taurus/pkg/codec"
	"github.com/BiAPoL/biapol-taurus/pkg/datamover"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
	"github.com/BiAPoL/biapol-taurus/pkg/proc"
	"github.com/BiAPoL/biapol-taurus/pkg/workspace"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// defaultExpireDays is how long the cache workspace lives when the caller
// doesn't configure an expiry.
const defaultExpireDays = 7

// removeTimeout is how long Remove waits for the delete job when the
// caller asked to wait.
const removeTimeout = 20 * time.Second

// Target selects the tier a staged file is written to.
type Target int

const (
	// TargetProject writes into the project space.
	TargetProject Target = iota

	// TargetFileserver writes onto the fileserver mount. The mount isn't
	// directly writable from compute nodes, so these writes always go
	// through the scratch cache and a datamover move job.
	TargetFileserver
)

// Config describes the tiers a Stager connects.
type Config struct {
	// FileserverDir is the fileserver mount on the export node,
	// e.g. /grp/g_my_group/userdir.
	FileserverDir string

	// ProjectDir is the project space on the cluster,
	// e.g. /projects/p_my_project/userdir.
	ProjectDir string

	// DatamoverDir and WorkspaceDir override where the external tools are
	// installed. Empty values use the cluster defaults.
	DatamoverDir string
	WorkspaceDir string

	// WorkspaceName names the cache workspace. When empty a unique name is
	// generated, so the cache dies with this session.
	WorkspaceName string

	// ExpireInDays is the cache workspace lifetime.
	ExpireInDays int

	// Timeout bounds how long Resolve waits for a copy job. Non-positive
	// means wait indefinitely.
	Timeout time.Duration

	// Runner overrides how external commands are launched. Tests use this
	// to observe jobs.
	Runner proc.Runner
}

// Stager resolves logical filenames to physical paths and stages files
// between tiers. It owns a private cache subdirectory inside a scratch
// workspace for the lifetime of the session; call Close to release it.
//
// A Stager is not safe for concurrent use. Two concurrent Resolve calls
// for the same name can race the cache check and launch duplicate copy
// jobs into the same cache target. Either job leaves a valid cache entry,
// but the copies aren't deduplicated -- callers that need concurrency
// must serialize around the Stager.
type Stager struct {
	fileserverDir string
	projectDir    string
	timeout       time.Duration

	dm    *datamover.Client
	alloc *workspace.Allocator

	workspaceName string
	cacheDir      string
	closed        bool
}

// New connects a fileserver mount with a project space and allocates the
// cache workspace.
func New(cfg Config) (*Stager, error) {
	if cfg.FileserverDir == "" {
		return nil, errors.MissingFieldError{Field: "fileserverDir"}
	}
	if cfg.ProjectDir == "" {
		return nil, errors.MissingFieldError{Field: "projectDir"}
	}

	runner := cfg.Runner
	if runner == nil {
		runner = proc.NewRunner()
	}

	expire := cfg.ExpireInDays
	if expire <= 0 {
		expire = defaultExpireDays
	}

	workspaceName := cfg.WorkspaceName
	if workspaceName == "" {
		workspaceName = "taurus-" + uuid.NewString()[:8]
	}

	s := &Stager{
		fileserverDir: filepath.Clean(cfg.FileserverDir),
		projectDir:    filepath.Clean(cfg.ProjectDir),
		timeout:       cfg.Timeout,
		dm:            datamover.New(cfg.DatamoverDir, runner),
		alloc:         workspace.New(cfg.WorkspaceDir, runner),
		workspaceName: workspaceName,
	}

	if err := fs.MkdirAll(s.projectDir, 0755); err != nil {
		return nil, errors.WithContext(err, "create project dir")
	}

	workspacePath, err := s.alloc.Allocate(workspaceName, expire)
	if err != nil {
		return nil, errors.WithContext(err, "allocate cache workspace")
	}

	s.cacheDir = filepath.Join(workspacePath, "cache")
	if err := fs.MkdirAll(s.cacheDir, 0755); err != nil {
		return nil, errors.WithContext(err, "create cache dir")
	}

	log.WithFields(log.Fields{
		"workspace": workspaceName,
		"cache":     s.cacheDir,
	}).Debug("Allocated cache workspace")
	return s, nil
}

// CacheDir returns the private cache subdirectory owned by this Stager.
func (s *Stager) CacheDir() string {
	return s.cacheDir
}

// Close removes the cache subdirectory and releases the workspace.
// Closing twice, or closing after the workspace already expired, is
// success.
func (s *Stager) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := fs.RemoveAll(s.cacheDir); err != nil {
		log.WithError(err).WithField("cache", s.cacheDir).Warn(
			"Failed to remove cache dir. The workspace release below cleans it up anyway.")
	}

	if err := s.alloc.Release(s.workspaceName); err != nil {
		return errors.WithContext(err, "release cache workspace")
	}
	return nil
}

// Resolve finds the physical path for a logical filename, staging it from
// the fileserver into the cache if no tier has it yet. Candidate
// locations are checked in order, first match wins:
//
//  1. the name taken as a filesystem path exactly as given,
//  2. the path relative to the project space,
//  3. the cache, keyed by base name only, so a bare filename and a path
//     relative to the fileserver mount hit the same warm entry,
//  4. a datamover copy job from the fileserver into the cache.
//
// A cache hit is returned as-is, even if the fileserver copy changed
// after it was staged. Staleness is the caller's responsibility.
func (s *Stager) Resolve(name string) (string, error) {
	return s.ResolveTimeout(name, s.timeout)
}

// ResolveTimeout is Resolve with an explicit deadline for the copy job.
// On expiry the copy job keeps running and an errors.Timeout is returned;
// a retry may then find the file already cached.
func (s *Stager) ResolveTimeout(name string, timeout time.Duration) (string, error) {
	if isRegularFile(name) {
		return name, nil
	}

	normalized := strings.ReplaceAll(name, "\\", "/")

	projectPath := filepath.Join(s.projectDir, filepath.FromSlash(normalized))
	if isRegularFile(projectPath) {
		return projectPath, nil
	}

	cachePath := filepath.Join(s.cacheDir, path.Base(normalized))
	if exists, _ := afero.Exists(fs, cachePath); exists {
		log.WithField("path", cachePath).Debug("Returning previously staged copy")
		return cachePath, nil
	}

	remotePath := filepath.Join(s.fileserverDir, filepath.FromSlash(normalized))
	job, err := s.dm.Copy(true, remotePath, cachePath)
	if err != nil {
		return "", errors.WithContext(err, "submit copy job")
	}

	exitCode, err := job.Wait(timeout)
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		_, stderr, _ := job.Drain()
		log.WithField("stderr", string(stderr)).Debug("Copy job failed")
		return "", errors.NotFound{Name: name, RemotePath: remotePath}
	}
	return cachePath, nil
}

// Load resolves a logical filename and reads it with the given codec.
func (s *Stager) Load(name string, c codec.Codec) (interface{}, error) {
	physical, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	return c.Load(fs, physical)
}

// Stage writes a value into the project space under the given logical
// name using the writer.
func (s *Stager) Stage(name string, w codec.Writer, v interface{}) error {
	return s.StageTo(TargetProject, name, w, v)
}

// StageTo writes a value into the chosen tier. When the destination's
// parent directory is writable by this process the writer saves directly;
// otherwise the value is saved to a scratch file in the cache and moved
// into place by a datamover job, which is waited for before returning.
func (s *Stager) StageTo(target Target, name string, w codec.Writer, v interface{}) error {
	normalized := strings.ReplaceAll(name, "\\", "/")

	dest := normalized
	if !filepath.IsAbs(dest) {
		root := s.projectDir
		if target == TargetFileserver {
			root = s.fileserverDir
		}
		dest = filepath.Join(root, filepath.FromSlash(normalized))
	}

	// The fileserver mount is never written directly, regardless of what
	// the local mount table claims.
	direct := target != TargetFileserver && isWritableDir(filepath.Dir(dest))
	if direct {
		return w.Save(fs, dest, v)
	}

	scratch := filepath.Join(s.cacheDir, path.Base(normalized))
	if err := w.Save(fs, scratch, v); err != nil {
		return err
	}

	job, err := s.dm.Move(scratch, dest)
	if err != nil {
		return errors.WithContext(err, "submit move job")
	}

	exitCode, err := job.Wait(s.timeout)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		_, stderr, _ := job.Drain()
		return errors.TransferFailed{Op: "move", Path: dest, Stderr: stderr}
	}
	return nil
}

// Remove deletes a file from the project space through a datamover job.
// Names outside the project space are joined onto it. When wait is false
// the in-flight job is returned and the caller owns it; when wait is
// true, Remove blocks (bounded by a 20s deadline) and reports a non-zero
// exit as TransferFailed.
func (s *Stager) Remove(name string, wait bool) (*proc.Job, error) {
	target := name
	if !strings.HasPrefix(target, s.projectDir) {
		target = filepath.Join(s.projectDir, filepath.FromSlash(name))
	}

	job, err := s.dm.Remove(true, target)
	if err != nil {
		return nil, errors.WithContext(err, "submit remove job")
	}

	if !wait {
		return job, nil
	}

	exitCode, err := job.Wait(removeTimeout)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		_, stderr, _ := job.Drain()
		return nil, errors.TransferFailed{Op: "remove", Path: target, Stderr: stderr}
	}
	return nil, nil
}

// ListLocal returns a sorted recursive listing of the project space.
func (s *Stager) ListLocal() ([]string, error) {
	var listing []string
	err := afero.Walk(fs, s.projectDir, func(walkPath string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if walkPath == s.projectDir {
			return nil
		}
		listing = append(listing, walkPath)
		return nil
	})
	if err != nil {
		return nil, errors.WithContext(err, "walk project dir")
	}

	sort.Strings(listing)
	return listing, nil
}

// ListRemote returns the listing of the fileserver mount, as reported by
// a datamover listing job. A non-zero exit is logged, not raised, and
// whatever output was produced is returned.
func (s *Stager) ListRemote() ([]string, error) {
	job, err := s.dm.List(s.fileserverDir, 1)
	if err != nil {
		return nil, errors.WithContext(err, "submit list job")
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
		log.WithField("stderr", string(stderr)).Warn("List job exited non-zero")
	}

	lines := strings.Split(strings.TrimRight(string(stdout), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	return lines, nil
}

func isRegularFile(path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isWritableDir probes whether this process can create files in dir.
// Permission bits alone aren't enough (think root squash on the export
// node mounts), so it actually tries.
func isWritableDir(dir string) bool {
	probe := filepath.Join(dir, ".taurus-probe-"+uuid.NewString()[:8])
	f, err := fs.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	_ = fs.Remove(probe)
	return true
}
