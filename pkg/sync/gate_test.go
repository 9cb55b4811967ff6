package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

func TestClassify(t *testing.T) {
	userSrc := "/grp/g_group/userdir"
	userDst := "/projects/p_project/userdir"

	tests := []struct {
		name         string
		req          Request
		src, dst     string
		expDangerous bool
	}{
		{
			name: "PlainSyncIsSafe",
			req:  Request{},
			src:  userSrc, dst: userDst,
			expDangerous: false,
		},
		{
			name: "DeleteIsDangerous",
			req:  Request{Delete: true},
			src:  userSrc, dst: userDst,
			expDangerous: true,
		},
		{
			name: "OverwriteNewerIsDangerous",
			req:  Request{OverwriteNewer: true},
			src:  userSrc, dst: userDst,
			expDangerous: true,
		},
		{
			name: "DryRunNeutralizesDelete",
			req:  Request{Delete: true, DryRun: true},
			src:  userSrc, dst: userDst,
			expDangerous: false,
		},
		{
			name: "DryRunNeutralizesWholeTreeSync",
			req:  Request{DryRun: true},
			src:  "/grp/g_group", dst: "/projects/p_project",
			expDangerous: false,
		},
		{
			name: "WholeTreeSyncIsDangerous",
			req:  Request{},
			src:  "/grp/g_group", dst: "/projects/p_project",
			expDangerous: true,
		},
		{
			name: "WholeTreeNeedsBothRoots",
			req:  Request{},
			src:  "/grp/g_group", dst: userDst,
			expDangerous: false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			classification := Classify(test.req, test.src, test.dst)
			assert.Equal(t, test.expDangerous, classification.Dangerous)
			if test.expDangerous {
				assert.NotEmpty(t, classification.Reason)
			}
		})
	}
}

func TestEnforceUnconfirmedForcesDryRun(t *testing.T) {
	var sawDryRun bool
	run := func(dryRun bool) ([]byte, error) {
		sawDryRun = dryRun
		return []byte("would delete testdata.txt"), nil
	}

	req := Request{Delete: true}
	_, err := Enforce(req, "/grp/g_group/userdir", "/projects/p_project/userdir", run)
	require.Error(t, err)
	assert.True(t, sawDryRun, "the gate must downgrade to a dry run")

	confirmErr, ok := err.(errors.ConfirmationRequired)
	require.True(t, ok, "expected ConfirmationRequired, got %T", err)
	assert.Equal(t, "would delete testdata.txt", string(confirmErr.DryRunOutput))
}

func TestEnforceConfirmedRunsForReal(t *testing.T) {
	var sawDryRun bool
	run := func(dryRun bool) ([]byte, error) {
		sawDryRun = dryRun
		return []byte("deleted testdata.txt"), nil
	}

	req := Request{Delete: true, Confirmed: true}
	output, err := Enforce(req, "/grp/g_group/userdir", "/projects/p_project/userdir", run)
	require.NoError(t, err)
	assert.False(t, sawDryRun)
	assert.Equal(t, "deleted testdata.txt", string(output))
}

func TestEnforceSafeRequestSkipsGate(t *testing.T) {
	calls := 0
	run := func(dryRun bool) ([]byte, error) {
		calls++
		assert.False(t, dryRun)
		return nil, nil
	}

	_, err := Enforce(Request{}, "/grp/g_group/userdir", "/projects/p_project/userdir", run)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTierRoot(t *testing.T) {
	assert.True(t, isTierRoot("/projects/p_project"))
	assert.True(t, isTierRoot("/projects/p_project/"))
	assert.True(t, isTierRoot("/scratch"))
	assert.False(t, isTierRoot("/projects/p_project/userdir"))
	assert.False(t, isTierRoot("relative/path"))
}
