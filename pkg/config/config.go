// Package config parses the user's taurus.yaml, which binds the storage
// tiers together: the fileserver mount, the project space, and where the
// external transfer tools live. Defaults for everything optional live
// here and nowhere else.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// FileName is the configuration file looked up in the working directory
// and, failing that, in the user's home directory.
const FileName = "taurus.yaml"

// SupportedVersion is the configuration version this binary understands.
const SupportedVersion = "v1alpha1"

// parseErrTemplate is shown when the yaml library rejects the file. The
// parser's errors lose context, so we can only pass the message on.
const parseErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the config file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// Project binds a fileserver share to a project space.
type Project struct {
	Version string `json:"version,omitempty"`

	// Fileserver is the fileserver mount on the export node,
	// e.g. /grp/g_my_group/userdir. Required.
	Fileserver string `json:"fileserver"`

	// ProjectSpace is the project space on the cluster,
	// e.g. /projects/p_my_project/userdir. Required.
	ProjectSpace string `json:"projectSpace"`

	// DatamoverBin and WorkspaceBin override where the external tools are
	// installed.
	DatamoverBin string `json:"datamoverBin,omitempty"`
	WorkspaceBin string `json:"workspaceBin,omitempty"`

	// WorkspaceName names the cache workspace so separate sessions can
	// share a warm cache. Empty means a fresh workspace per session.
	WorkspaceName string `json:"workspaceName,omitempty"`

	// CacheExpireDays is the cache workspace lifetime.
	CacheExpireDays int `json:"cacheExpireDays,omitempty"`

	// TimeoutSeconds bounds how long transfers are waited for. Zero waits
	// indefinitely.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`
}

func (p Project) getVersion() string {
	return p.Version
}

// Timeout returns the configured transfer deadline as a duration.
func (p Project) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Parse reads the configuration from the working directory, falling back
// to the home directory.
func Parse() (Project, error) {
	if exists, _ := afero.Exists(fs, FileName); exists {
		return ParseFrom(FileName)
	}

	home, err := homedir.Dir()
	if err != nil {
		return Project{}, errors.WithContext(err, "find home dir")
	}
	return ParseFrom(filepath.Join(home, "."+FileName))
}

// ParseFrom reads the configuration at the given path.
func ParseFrom(path string) (Project, error) {
	project := Project{Version: SupportedVersion}
	if err := parse(path, &project); err != nil {
		return Project{}, errors.WithContext(err, "parse")
	}

	if project.Fileserver == "" {
		return Project{}, errors.MissingFieldError{Field: "fileserver"}
	}
	if project.ProjectSpace == "" {
		return Project{}, errors.MissingFieldError{Field: "projectSpace"}
	}
	return project, nil
}

type versioned interface {
	getVersion() string
}

func parse(path string, config versioned) error {
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if isPathNotFoundError(err) {
			return errors.FileNotFound{Path: path}
		}
		return errors.WithContext(err, "read file")
	}

	if err := yaml.Unmarshal(configBytes, config); err != nil {
		return errors.NewFriendlyError(parseErrTemplate, path, err)
	}

	if config.getVersion() != SupportedVersion {
		return errors.NewFriendlyError(
			"The configuration file %q is incompatible with this version "+
				"of the CLI.\nExpected version %q, but got %q.",
			path, SupportedVersion, config.getVersion())
	}

	// Do a strict unmarshal to check for any extra fields. The non-strict
	// unmarshal above catches version errors before we error on extra
	// fields.
	if err := yaml.UnmarshalStrict(configBytes, config, yaml.DisallowUnknownFields); err != nil {
		return errors.NewFriendlyError(parseErrTemplate, path, err)
	}
	return nil
}

func isPathNotFoundError(err error) bool {
	if fileErr, ok := err.(*os.PathError); ok &&
		fileErr.Op == "open" && fileErr.Err.Error() == "no such file or directory" {
		return true
	}
	return false
}
