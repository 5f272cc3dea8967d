package anchor

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks an entry's progress through the anchoring pipeline.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusBatched  Status = "batched"
	StatusAnchored Status = "anchored"
	StatusFailed   Status = "failed"
)

// statusRank orders the happy path. Failed is reachable from any
// non-terminal state and is itself terminal alongside anchored.
var statusRank = map[Status]int{
	StatusQueued:   0,
	StatusBatched:  1,
	StatusAnchored: 2,
}

// CanTransition reports whether moving from one status to another is
// allowed. Progress is forward-only and terminal states never change.
// Failed is reachable from any non-terminal state; a confirmed on-chain
// anchoring cannot regress to failed, so anchored stays terminal too.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	if from == StatusAnchored || from == StatusFailed {
		return false
	}
	if to == StatusFailed {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// QueueEntry is a pending or completed anchoring request for a hallmark.
type QueueEntry struct {
	ID          uuid.UUID  `json:"id"`
	HallmarkID  uuid.UUID  `json:"hallmarkId"`
	ContentHash string     `json:"contentHash"`
	AssetType   string     `json:"assetType"`
	Status      Status     `json:"status"`
	TxSignature string     `json:"txSignature,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	AnchoredAt  *time.Time `json:"anchoredAt,omitempty"`

	// tenantPrefix tags the memo for manual re-anchors; not persisted.
	tenantPrefix string
}
