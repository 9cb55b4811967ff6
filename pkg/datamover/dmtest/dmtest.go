// Package dmtest provides a fake cluster for tests: a temporary directory
// tree with shell-script stand-ins for the datamover and workspace tools,
// so the real process-launching code paths can be exercised without an
// actual export node.
package dmtest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Cluster is a throwaway on-disk stand-in for the pieces of the cluster
// this project talks to: a fileserver mount, a project space, a scratch
// area for workspaces, and a bin directory with fake datamover tools.
type Cluster struct {
	Root         string
	BinDir       string
	ScratchDir   string
	Fileserver   string
	ProjectSpace string
}

// The fake tools translate datamover invocations into plain local file
// operations, the same way the export nodes eventually would.
var scripts = map[string]string{
	"dtcp": `#!/bin/sh
exec cp "$@"
`,
	"dtmv": `#!/bin/sh
exec mv "$@"
`,
	"dtrm": `#!/bin/sh
exec rm "$@"
`,
	"dtls": `#!/bin/sh
case "$1" in
--version) echo "slurmtools 23.12"; exit 0 ;;
-R*) shift; exec find "$@" ;;
*) exec ls "$@" ;;
esac
`,
	// A minimal rsync stand-in. Understands exactly the flags the
	// synchronizer emits: -av, --update, --delete, --dry-run,
	// --exclude=PATTERN.
	"dtrsync": `#!/bin/sh
update=0; delete=0; dry=0; exclude=
while [ $# -gt 2 ]; do
	case "$1" in
	--update) update=1 ;;
	--delete) delete=1 ;;
	--dry-run) dry=1 ;;
	--exclude=*) exclude="${1#--exclude=}" ;;
	esac
	shift
done
src="$1"; dst="$2"

(cd "$src" && find . -type f) | while read -r f; do
	f="${f#./}"
	if [ -n "$exclude" ]; then
		case "$f" in "$exclude"|"$exclude"/*) continue ;; esac
	fi
	if [ "$update" = 1 ] && [ "$dst/$f" -nt "$src/$f" ]; then
		continue
	fi
	echo "$f"
	if [ "$dry" = 0 ]; then
		mkdir -p "$dst/$(dirname "$f")"
		cp -p "$src/$f" "$dst/$f"
	fi
done

if [ "$delete" = 1 ]; then
	(cd "$dst" && find . -type f) | while read -r f; do
		f="${f#./}"
		if [ ! -e "$src/$f" ]; then
			echo "deleting $f"
			if [ "$dry" = 0 ]; then
				rm -f "$dst/$f"
			fi
		fi
	done
fi
exit 0
`,
}

const wsAllocate = `#!/bin/sh
base=%q
mkdir -p "$base/$1"
echo "$base/$1"
`

const wsRelease = `#!/bin/sh
base=%q
if [ ! -d "$base/$1" ]; then
	echo "Error: workspace $1 does not exist" >&2
	exit 1
fi
rm -rf "$base/$1"
`

// New creates a fake cluster under a test temp directory. Everything is
// cleaned up when the test finishes.
func New(t *testing.T) *Cluster {
	t.Helper()

	root := t.TempDir()
	cluster := &Cluster{
		Root:         root,
		BinDir:       filepath.Join(root, "bin"),
		ScratchDir:   filepath.Join(root, "scratch"),
		Fileserver:   filepath.Join(root, "fileserver", "userdir"),
		ProjectSpace: filepath.Join(root, "project", "userdir"),
	}

	for _, dir := range []string{
		cluster.BinDir, cluster.ScratchDir, cluster.Fileserver, cluster.ProjectSpace,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("create %s: %s", dir, err)
		}
	}

	for name, contents := range scripts {
		writeScript(t, cluster.BinDir, name, contents)
	}
	writeScript(t, cluster.BinDir, "ws_allocate", fmt.Sprintf(wsAllocate, cluster.ScratchDir))
	writeScript(t, cluster.BinDir, "ws_release", fmt.Sprintf(wsRelease, cluster.ScratchDir))

	return cluster
}

// WriteFileserverFile creates a file on the fake fileserver mount.
func (cluster *Cluster) WriteFileserverFile(t *testing.T, name, contents string) string {
	return writeDataFile(t, cluster.Fileserver, name, contents)
}

// WriteProjectFile creates a file in the fake project space.
func (cluster *Cluster) WriteProjectFile(t *testing.T, name, contents string) string {
	return writeDataFile(t, cluster.ProjectSpace, name, contents)
}

func writeDataFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create parent of %s: %s", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write %s: %s", path, err)
	}
	return path
}

func writeScript(t *testing.T, binDir, name, contents string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(binDir, name), []byte(contents), 0755); err != nil {
		t.Fatalf("write fake %s: %s", name, err)
	}
}
