// Package hallmark contains the identifier grammar, content hashing, and
// badge classification for provenance hallmarks. Everything in this package
// is pure; persistence and orchestration live in the service and store
// subpackages.
package hallmark

import (
	"time"

	"github.com/google/uuid"

	dErrors "orbit/pkg/domain-errors"
)

// RecipientRole is the fixed set of roles a hallmark can be issued to.
type RecipientRole string

const (
	RoleEmployee RecipientRole = "employee"
	RoleOwner    RecipientRole = "owner"
	RoleAdmin    RecipientRole = "admin"
	RoleClient   RecipientRole = "client"
	RoleSystem   RecipientRole = "system"
)

var validRoles = map[RecipientRole]struct{}{
	RoleEmployee: {},
	RoleOwner:    {},
	RoleAdmin:    {},
	RoleClient:   {},
	RoleSystem:   {},
}

// ParseRecipientRole validates a raw role string against the fixed set.
func ParseRecipientRole(raw string) (RecipientRole, error) {
	role := RecipientRole(raw)
	if _, ok := validRoles[role]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown recipientRole %q", raw)
	}
	return role, nil
}

// Hallmark is an issued provenance identifier. Immutable after creation
// except for the ledger fields and VerifiedAt (set at most once).
type Hallmark struct {
	ID             uuid.UUID      `json:"id"`
	HallmarkNumber string         `json:"hallmarkNumber"`
	AssetNumber    string         `json:"assetNumber,omitempty"`
	AssetType      string         `json:"assetType"`
	ReferenceID    string         `json:"referenceId,omitempty"`
	CreatedBy      string         `json:"createdBy"`
	RecipientName  string         `json:"recipientName"`
	RecipientRole  RecipientRole  `json:"recipientRole"`
	ContentHash    string         `json:"contentHash"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	SearchTerms    string         `json:"searchTerms,omitempty"`

	BlockchainTxSignature string     `json:"blockchainTxSignature,omitempty"`
	BlockchainExplorerURL string     `json:"blockchainExplorerUrl,omitempty"`
	VerifiedAt            *time.Time `json:"verifiedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
