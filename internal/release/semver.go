package release

import (
	"fmt"
	"strconv"
	"strings"

	dErrors "orbit/pkg/domain-errors"
)

// BumpType selects which semver segment a release bump increments.
type BumpType string

const (
	BumpMajor BumpType = "major"
	BumpMinor BumpType = "minor"
	BumpPatch BumpType = "patch"
)

// ParseBumpType validates a raw bump type string.
func ParseBumpType(raw string) (BumpType, error) {
	switch BumpType(raw) {
	case BumpMajor, BumpMinor, BumpPatch:
		return BumpType(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown bumpType %q", raw)
}

// NextVersion computes the semver that follows version under the given bump.
// Major resets minor and patch, minor resets patch.
func NextVersion(version string, bump BumpType) (string, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return "", dErrors.Newf(dErrors.CodeValidation, "malformed version %q", version)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return "", dErrors.Newf(dErrors.CodeValidation, "malformed version %q", version)
		}
		nums[i] = n
	}

	switch bump {
	case BumpMajor:
		nums[0]++
		nums[1] = 0
		nums[2] = 0
	case BumpMinor:
		nums[1]++
		nums[2] = 0
	case BumpPatch:
		nums[2]++
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown bumpType %q", bump)
	}
	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]), nil
}
