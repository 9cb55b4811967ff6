package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0644))
}

func TestParseFrom(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeConfig(t, "/taurus.yaml", `version: v1alpha1
fileserver: /grp/g_group/userdir
projectSpace: /projects/p_project/userdir
workspaceName: shared-cache
cacheExpireDays: 14
timeoutSeconds: 30
`)

	project, err := ParseFrom("/taurus.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/grp/g_group/userdir", project.Fileserver)
	assert.Equal(t, "/projects/p_project/userdir", project.ProjectSpace)
	assert.Equal(t, "shared-cache", project.WorkspaceName)
	assert.Equal(t, 14, project.CacheExpireDays)
	assert.Equal(t, 30*time.Second, project.Timeout())
}

func TestParseDefaultsVersion(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeConfig(t, "/taurus.yaml", `fileserver: /grp/g_group/userdir
projectSpace: /projects/p_project/userdir
`)

	project, err := ParseFrom("/taurus.yaml")
	require.NoError(t, err)
	assert.Equal(t, SupportedVersion, project.Version)
	assert.Zero(t, project.Timeout())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name: "WrongVersion",
			contents: `version: v2
fileserver: /grp/g_group/userdir
projectSpace: /projects/p_project/userdir
`,
		},
		{
			name: "UnknownField",
			contents: `fileserver: /grp/g_group/userdir
projectSpace: /projects/p_project/userdir
fileServerDir: typo
`,
		},
		{
			name:     "MissingFileserver",
			contents: `projectSpace: /projects/p_project/userdir`,
		},
		{
			name:     "MissingProjectSpace",
			contents: `fileserver: /grp/g_group/userdir`,
		},
		{
			name:     "NotYaml",
			contents: `{{{`,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			fs = afero.NewMemMapFs()
			writeConfig(t, "/taurus.yaml", test.contents)

			_, err := ParseFrom("/taurus.yaml")
			assert.Error(t, err)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	fs = afero.NewMemMapFs()

	_, err := ParseFrom("/taurus.yaml")
	assert.Error(t, err)
}
