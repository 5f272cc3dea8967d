package hallmark

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRanges(t *testing.T) {
	classifier := NewClassifier(NewScheme(nil))

	tests := []struct {
		master int64
		tier   string
	}{
		{1, "Founding Asset"},
		{3, "Founding Asset"},
		{4, "Core Team"},
		{99, "Core Team"},
		{100, "Special Edition"},
		{999, "Special Edition"},
		{1000, "Genesis Series"},
		{1999, "Genesis Series"},
		{2000, "Anniversary"},
		{2999, "Anniversary"},
		{3000, "Standard"},
		{3117, "Standard"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("master %d", tt.master), func(t *testing.T) {
			badge := classifier.Classify(FormatAssetNumber(tt.master, 0))
			assert.Equal(t, tt.tier, badge.Tier)
		})
	}
}

// The numeric decision table must cover [1, 2999] exactly, without gaps or
// overlapping rows.
func TestRangeTablePartition(t *testing.T) {
	require.NotEmpty(t, rangeBadges)

	var next int64 = 1
	for _, row := range rangeBadges {
		assert.Equal(t, next, row.lo, "gap or overlap before row %q", row.badge.Tier)
		assert.GreaterOrEqual(t, row.hi, row.lo)
		next = row.hi + 1
	}
	assert.Equal(t, int64(3000), next, "table must end at 2999")
}

func TestClassifyNamedPrefixes(t *testing.T) {
	classifier := NewClassifier(NewScheme(nil))

	// Named prefixes win over whatever range the master falls in.
	assert.Equal(t, "Platinum", classifier.Classify("#PT-000000001-00").Tier)
	assert.Equal(t, "DarkWave", classifier.Classify("#DW-000001000-00").Tier)
	assert.Equal(t, "Paint Pros", classifier.Classify("#PP-000002000-00").Tier)

	// FE has no badge row of its own, so the numeric range applies.
	assert.Equal(t, "Founding Asset", classifier.Classify("#FE-000000001-00").Tier)
}

func TestClassifyIsTotal(t *testing.T) {
	classifier := NewClassifier(NewScheme(nil))

	for _, number := range []string{
		"",
		"not-a-hallmark",
		"ORBIT-20260901-A1B2C3",
		"#ZZ-000003117-00",
	} {
		badge := classifier.Classify(number)
		assert.NotEmpty(t, badge.Tier, number)
		assert.NotEmpty(t, badge.Color, number)
	}

	assert.Equal(t, "Standard", classifier.Classify("not-a-hallmark").Tier)
	assert.Equal(t, "Standard", classifier.Classify("ORBIT-20260901-A1B2C3").Tier)
}
