package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BiAPoL/biapol-taurus/pkg/datamover/dmtest"
	"github.com/BiAPoL/biapol-taurus/pkg/proc"
)

func TestAllocateAndRelease(t *testing.T) {
	cluster := dmtest.New(t)
	alloc := New(cluster.BinDir, proc.NewRunner())

	path, err := alloc.Allocate("taurus-test", 7)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cluster.ScratchDir, "taurus-test"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, alloc.Release("taurus-test"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDoubleReleaseIsSuccess(t *testing.T) {
	cluster := dmtest.New(t)
	alloc := New(cluster.BinDir, proc.NewRunner())

	_, err := alloc.Allocate("taurus-test", 7)
	require.NoError(t, err)

	require.NoError(t, alloc.Release("taurus-test"))
	assert.NoError(t, alloc.Release("taurus-test"),
		"releasing an already released workspace should succeed")
}

func TestReleaseNeverAllocated(t *testing.T) {
	cluster := dmtest.New(t)
	alloc := New(cluster.BinDir, proc.NewRunner())

	assert.NoError(t, alloc.Release("never-allocated"))
}
