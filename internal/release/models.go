// Package release versions tenant deployments: each bump mints a semver,
// a monotonic build number, and a hallmark certifying the release.
package release

import (
	"time"

	"github.com/google/uuid"
)

// Seed values used when a tenant has no release history yet.
const (
	SeedVersion = "1.0.0"
	SeedBuild   = 0
)

// Ledger anchoring states for a release.
const (
	LedgerPending  = "pending"
	LedgerAnchored = "anchored"
	LedgerFailed   = "failed"
	LedgerSkipped  = "skipped"
)

// Version is one released build of a tenant's platform.
type Version struct {
	ID           uuid.UUID `json:"id"`
	TenantID     string    `json:"tenantId"`
	Version      string    `json:"version"`
	BuildNumber  int64     `json:"buildNumber"`
	HallmarkID   uuid.UUID `json:"hallmarkId"`
	ContentHash  string    `json:"contentHash"`
	DeploymentID string    `json:"deploymentId,omitempty"`
	ReleaseNotes string    `json:"releaseNotes,omitempty"`

	LedgerStatus    string `json:"ledgerStatus"`
	LedgerSignature string `json:"ledgerSignature,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// DefaultTenantNames maps tenant ids to the display names stamped onto
// release hallmarks.
func DefaultTenantNames() map[string]string {
	return map[string]string{
		"orbit": "ORBIT Platform",
		"npp":   "Nashville Painting Professionals",
		"demo":  "PaintPros.io Demo",
	}
}

// TenantDisplayName resolves a tenant's display name, falling back to the id.
func TenantDisplayName(tenantID string, names map[string]string) string {
	if name, ok := names[tenantID]; ok {
		return name
	}
	return tenantID
}
