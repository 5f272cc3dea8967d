package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "orbit/pkg/domain-errors"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		version string
		bump    BumpType
		want    string
	}{
		{"1.0.0", BumpPatch, "1.0.1"},
		{"1.0.9", BumpPatch, "1.0.10"},
		{"1.0.5", BumpMinor, "1.1.0"},
		{"1.4.7", BumpMajor, "2.0.0"},
		{"0.0.0", BumpPatch, "0.0.1"},
		{"2.9.9", BumpMinor, "2.10.0"},
	}
	for _, tt := range tests {
		got, err := NextVersion(tt.version, tt.bump)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s + %s", tt.version, tt.bump)
	}
}

func TestNextVersionRejectsMalformed(t *testing.T) {
	for _, version := range []string{"", "1.0", "1.0.0.0", "1.0.x", "1.-1.0", "v1.0.0"} {
		_, err := NextVersion(version, BumpPatch)
		require.Error(t, err, "version %q", version)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	}

	_, err := NextVersion("1.0.0", BumpType("rollback"))
	require.Error(t, err)
}

func TestParseBumpType(t *testing.T) {
	for _, raw := range []string{"major", "minor", "patch"} {
		got, err := ParseBumpType(raw)
		require.NoError(t, err)
		assert.Equal(t, BumpType(raw), got)
	}

	_, err := ParseBumpType("hotfix")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestTenantDisplayName(t *testing.T) {
	names := DefaultTenantNames()
	assert.Equal(t, "Nashville Painting Professionals", TenantDisplayName("npp", names))
	assert.Equal(t, "acme", TenantDisplayName("acme", names))
}
