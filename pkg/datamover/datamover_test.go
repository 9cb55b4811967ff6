package datamover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BiAPoL/biapol-taurus/pkg/datamover/dmtest"
	"github.com/BiAPoL/biapol-taurus/pkg/proc"
)

// recordingRunner captures the argument vectors of launched jobs while
// delegating to a no-op command so the returned job handles are real.
type recordingRunner struct {
	real  proc.Runner
	argvs [][]string
}

func (r *recordingRunner) Launch(argv []string) (*proc.Job, error) {
	r.argvs = append(r.argvs, argv)
	return r.real.Launch([]string{"true"})
}

func TestArgvAssembly(t *testing.T) {
	tests := []struct {
		name   string
		launch func(dm *Client) error
		exp    []string
	}{
		{
			name: "CopyRecursive",
			launch: func(dm *Client) error {
				_, err := dm.Copy(true, "/remote/a.npy", "/cache/")
				return err
			},
			exp: []string{"/tools/dtcp", "-r", "/remote/a.npy", "/cache/"},
		},
		{
			name: "CopyFlat",
			launch: func(dm *Client) error {
				_, err := dm.Copy(false, "/remote/a.npy", "/cache/a.npy")
				return err
			},
			exp: []string{"/tools/dtcp", "/remote/a.npy", "/cache/a.npy"},
		},
		{
			name: "RemoveRecursive",
			launch: func(dm *Client) error {
				_, err := dm.Remove(true, "/project/old")
				return err
			},
			exp: []string{"/tools/dtrm", "-r", "/project/old"},
		},
		{
			name: "ListWithDepth",
			launch: func(dm *Client) error {
				_, err := dm.List("/remote", 1)
				return err
			},
			exp: []string{"/tools/dtls", "-R1", "/remote"},
		},
		{
			name: "ListFlat",
			launch: func(dm *Client) error {
				_, err := dm.List("/remote", 0)
				return err
			},
			exp: []string{"/tools/dtls", "/remote"},
		},
		{
			name: "Move",
			launch: func(dm *Client) error {
				_, err := dm.Move("/scratch/tmp", "/remote/final")
				return err
			},
			exp: []string{"/tools/dtmv", "/scratch/tmp", "/remote/final"},
		},
		{
			name: "TreeSync",
			launch: func(dm *Client) error {
				_, err := dm.TreeSync([]string{"-av", "--delete"}, "/a/", "/b")
				return err
			},
			exp: []string{"/tools/dtrsync", "-av", "--delete", "/a/", "/b"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			runner := &recordingRunner{real: proc.NewRunner()}
			dm := New("/tools", runner)

			require.NoError(t, test.launch(dm))
			require.Len(t, runner.argvs, 1)
			assert.Equal(t, test.exp, runner.argvs[0])
		})
	}
}

func TestDefaultExeDir(t *testing.T) {
	runner := &recordingRunner{real: proc.NewRunner()}
	dm := New("", runner)

	_, err := dm.Move("/a", "/b")
	require.NoError(t, err)
	require.Len(t, runner.argvs, 1)
	assert.Equal(t, filepath.Join(DefaultExeDir, "dtmv"), runner.argvs[0][0])
}

func TestCopyAgainstFakeCluster(t *testing.T) {
	cluster := dmtest.New(t)
	src := cluster.WriteFileserverFile(t, "data.txt", "payload")

	dm := New(cluster.BinDir, proc.NewRunner())
	dst := filepath.Join(cluster.ProjectSpace, "data.txt")

	job, err := dm.Copy(false, src, dst)
	require.NoError(t, err)

	exitCode, err := job.Wait(-1)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)

	contents, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(contents))
}

func TestVersion(t *testing.T) {
	cluster := dmtest.New(t)
	dm := New(cluster.BinDir, proc.NewRunner())

	installed, err := dm.Version()
	require.NoError(t, err)
	assert.Equal(t, "23.12.0", installed.Core().String())

	assert.NoError(t, dm.CheckCompat())
}
