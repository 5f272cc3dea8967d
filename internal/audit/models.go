// Package audit is the append-only lifecycle log for hallmarks. Entries are
// created on every transition and never updated or deleted; integrity
// depends on nothing else.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lifecycle actions recorded against hallmarks.
const (
	ActionCreated      = "created"
	ActionVerified     = "verified"
	ActionAnchored     = "anchored"
	ActionAnchorFailed = "anchor_failed"
)

// Entry is one immutable audit record.
type Entry struct {
	ID         uuid.UUID      `json:"id"`
	HallmarkID uuid.UUID      `json:"hallmarkId"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Store persists audit entries. Implementations expose no update or delete.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByHallmark(ctx context.Context, hallmarkID uuid.UUID) ([]Entry, error)
}
