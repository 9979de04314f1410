package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"dev", Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}, "kin dev (commit dev, built unknown)"},
		{"tagged", Info{Version: "v0.3.1", CommitHash: "0123456789abcdef", BuildTime: "2024-05-01"}, "kin v0.3.1 (commit 0123456, built 2024-05-01)"},
		{"bare semver", Info{Version: "1.2.0", CommitHash: "abc", BuildTime: "x"}, "kin v1.2.0 (commit abc, built x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")

	_, err := Info{Version: "dev"}.Semver()
	assert.Error(t, err)
	v, err := Info{Version: "v2.0.0-rc.1"}.Semver()
	require.NoError(t, err)
	assert.Equal(t, "rc.1", v.Prerelease())
}
