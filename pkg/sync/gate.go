package sync

import (
	"path/filepath"
	"strings"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// Direction says which way a sync flows.
type Direction int

const (
	// FromFileserver mirrors the fileserver mount into the project space.
	FromFileserver Direction = iota

	// ToFileserver mirrors the project space onto the fileserver mount.
	ToFileserver
)

func (d Direction) String() string {
	if d == ToFileserver {
		return "to fileserver"
	}
	return "from fileserver"
}

// Request describes one directory synchronization.
type Request struct {
	Direction Direction

	// Delete removes destination files that have no source counterpart.
	Delete bool

	// OverwriteNewer overwrites destination files even when they are
	// newer than their source counterpart.
	OverwriteNewer bool

	// DryRun reports intended changes without applying them.
	DryRun bool

	// Confirmed acknowledges a dangerous request.
	Confirmed bool
}

// Classification is the safety verdict for a request.
type Classification struct {
	Dangerous bool
	Reason    string
}

// Classify decides whether a request is dangerous. The rules are checked
// in order:
//
//  1. A dry run can't mutate state, so it's never dangerous.
//  2. Deleting, or overwriting newer destination files, is dangerous.
//  3. Mirroring two whole tier roots against each other is dangerous,
//     even without those flags, because it can clobber co-tenants' data.
func Classify(req Request, srcRoot, dstRoot string) Classification {
	if req.DryRun {
		return Classification{}
	}

	if req.Delete {
		return Classification{
			Dangerous: true,
			Reason:    "syncing with delete=true will remove files from the destination",
		}
	}
	if req.OverwriteNewer {
		return Classification{
			Dangerous: true,
			Reason:    "syncing with overwriteNewer=true will overwrite newer files on the destination",
		}
	}

	if isTierRoot(srcRoot) && isTierRoot(dstRoot) {
		return Classification{
			Dangerous: true,
			Reason:    "syncing two whole tier roots may affect other users' data",
		}
	}
	return Classification{}
}

// Enforce runs a sync through the safety gate. A dangerous, unconfirmed
// request is downgraded to a dry run, and the dry run's output comes back
// inside a ConfirmationRequired error. Otherwise run is invoked for real
// (or as the dry run the caller asked for) and its output returned.
func Enforce(req Request, srcRoot, dstRoot string,
	run func(dryRun bool) ([]byte, error)) ([]byte, error) {

	classification := Classify(req, srcRoot, dstRoot)
	if !classification.Dangerous || req.Confirmed {
		return run(req.DryRun)
	}

	dryRunOutput, err := run(true)
	if err != nil {
		return nil, errors.WithContext(err, "dry run")
	}
	return nil, errors.ConfirmationRequired{
		Reason:       classification.Reason,
		DryRunOutput: dryRunOutput,
	}
}

// isTierRoot reports whether path is a top-level tier root like
// /projects/p_something or /grp/g_something, as opposed to a user-scoped
// subdirectory inside one.
func isTierRoot(path string) bool {
	cleaned := filepath.Clean(path)
	if !filepath.IsAbs(cleaned) {
		return false
	}

	components := 0
	for _, part := range strings.Split(cleaned, string(filepath.Separator)) {
		if part != "" {
			components++
		}
	}
	return components <= 2
}
