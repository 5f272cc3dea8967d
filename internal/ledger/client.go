// Package ledger submits content hashes to the Solana ledger and verifies
// prior anchoring transactions. Anchoring is best-effort: every error path
// here is caught by callers and degrades, never failing the owning business
// operation.
package ledger

import (
	"context"
	"fmt"
	"time"
)

// Networks the client can target.
const (
	NetworkDevnet  = "devnet"
	NetworkMainnet = "mainnet-beta"
)

var rpcEndpoints = map[string]string{
	NetworkDevnet:  "https://api.devnet.solana.com",
	NetworkMainnet: "https://api.mainnet-beta.solana.com",
}

// EntityRef identifies the record being anchored, embedded in the memo.
type EntityRef struct {
	EntityType string
	EntityID   string
}

// Receipt is the confirmation of an anchoring transaction.
type Receipt struct {
	Signature string
	Slot      uint64
	BlockTime time.Time
}

// VerifyResult is the outcome of a verification lookup. Verify is idempotent
// and safe to call repeatedly.
type VerifyResult struct {
	Found     bool       `json:"found"`
	Slot      uint64     `json:"slot,omitempty"`
	BlockTime *time.Time `json:"blockTime,omitempty"`
	// ExplorerURL is populated even when the signature is not found.
	ExplorerURL string `json:"explorerUrl"`
}

// Client is the anchoring interface the rest of the system depends on.
type Client interface {
	// Submit anchors a content hash: a zero-value self-transfer carrying a
	// tagged memo, confirmed within the client's timeout.
	Submit(ctx context.Context, contentHash string, ref EntityRef, tenantPrefix string) (Receipt, error)
	// Verify looks up a previously submitted signature.
	Verify(ctx context.Context, signature string) (VerifyResult, error)
	// Configured reports whether a wallet credential is loaded.
	Configured() bool
	// Network names the target cluster.
	Network() string
}

// ExplorerURL builds the public explorer link for a transaction signature.
func ExplorerURL(network, signature string) string {
	if network == NetworkDevnet {
		return fmt.Sprintf("https://explorer.solana.com/tx/%s?cluster=devnet", signature)
	}
	return fmt.Sprintf("https://explorer.solana.com/tx/%s", signature)
}
