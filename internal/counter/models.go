// Package counter implements the two numbering registries: per-tenant
// ordinal counters and the global master counter. Atomicity lives in the
// stores; this package adds lazy initialization and formatting.
package counter

import (
	"fmt"
	"strings"
	"time"
)

// Seeds for lazily created counters. Ordinal 1 is reserved for each tenant's
// genesis asset, assigned out-of-band; master numbers 1-3000 are the
// pre-seeded founding/special range.
const (
	OrdinalSeed = 2
	MasterSeed  = 3001
)

// TenantCounter is one tenant's ordinal counter row. NextOrdinal is the
// value the next issuance will return.
type TenantCounter struct {
	TenantID    string    `json:"tenantId"`
	Prefix      string    `json:"prefix"`
	NextOrdinal int64     `json:"nextOrdinal"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrdinalResult is an issued ordinal with its formatted hallmark number.
type OrdinalResult struct {
	Ordinal        int64  `json:"ordinal"`
	HallmarkNumber string `json:"hallmarkNumber"`
}

// DefaultTenantPrefixes maps known tenant IDs to their hallmark prefixes.
// Unknown tenants fall back to the upper-cased tenant ID.
func DefaultTenantPrefixes() map[string]string {
	return map[string]string{
		"orbit": "ORBIT",
		"npp":   "NPP",
		"demo":  "DEMO",
	}
}

// PrefixFor resolves a tenant's hallmark prefix. The prefix is fixed at the
// counter's first use and never changes afterwards.
func PrefixFor(tenantID string, prefixes map[string]string) string {
	if p, ok := prefixes[tenantID]; ok {
		return p
	}
	return strings.ToUpper(tenantID)
}

// FormatTenantNumber renders a tenant-scheme hallmark number:
// {prefix}-000000000-{ordinal, two digits minimum}.
func FormatTenantNumber(prefix string, ordinal int64) string {
	return fmt.Sprintf("%s-000000000-%02d", prefix, ordinal)
}
