// Package docasset registers tenant documents: each gets an ordinal-scheme
// hallmark number from the tenant counter and a SHA-256 of its content,
// optionally anchored to the ledger at creation time.
package docasset

import (
	"time"

	"github.com/google/uuid"
)

// SolanaStatus tracks a document's ledger anchoring state.
type SolanaStatus string

const (
	SolanaQueued    SolanaStatus = "queued"
	SolanaPending   SolanaStatus = "pending"
	SolanaConfirmed SolanaStatus = "confirmed"
	SolanaFailed    SolanaStatus = "failed"
)

// LedgerUpdate carries the fields recorded after an anchoring attempt.
type LedgerUpdate struct {
	Status      SolanaStatus
	Signature   string
	ExplorerURL string
	Slot        uint64
	BlockTime   *time.Time
}

// DocumentAsset is a registered tenant document.
type DocumentAsset struct {
	ID             uuid.UUID `json:"id"`
	TenantID       string    `json:"tenantId"`
	SourceType     string    `json:"sourceType"`
	SourceID       string    `json:"sourceId"`
	Title          string    `json:"title"`
	HallmarkNumber string    `json:"hallmarkNumber"`
	Ordinal        int64     `json:"ordinal"`
	SHA256Hash     string    `json:"sha256Hash"`

	SolanaStatus SolanaStatus `json:"solanaStatus"`
	Signature    string       `json:"signature,omitempty"`
	ExplorerURL  string       `json:"explorerUrl,omitempty"`
	Slot         uint64       `json:"slot,omitempty"`
	BlockTime    *time.Time   `json:"blockTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
