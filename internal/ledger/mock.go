package ledger

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"

	"github.com/mr-tron/base58"

	dErrors "orbit/pkg/domain-errors"
)

// MockClient is a deterministic in-process ledger for tests and local
// development. Signatures are derived from the submitted memo so repeated
// runs are stable.
type MockClient struct {
	mu          sync.Mutex
	submissions map[string]Receipt // signature -> receipt

	Unconfigured bool
	FailSubmit   error
	Latency      time.Duration

	nextSlot uint64
}

// NewMockClient creates an empty mock ledger.
func NewMockClient() *MockClient {
	return &MockClient{submissions: make(map[string]Receipt), nextSlot: 1000}
}

func (c *MockClient) Configured() bool { return !c.Unconfigured }

func (c *MockClient) Network() string { return NetworkDevnet }

func (c *MockClient) Submit(_ context.Context, contentHash string, ref EntityRef, tenantPrefix string) (Receipt, error) {
	time.Sleep(c.Latency)

	if c.Unconfigured {
		return Receipt{}, dErrors.New(dErrors.CodeNotConfigured, "ledger wallet not configured")
	}
	if c.FailSubmit != nil {
		return Receipt{}, c.FailSubmit
	}

	memo := BuildMemo(tenantPrefix, ref, contentHash)
	digest := sha256.Sum256([]byte(memo))
	signature := base58.Encode(append(digest[:], digest[:]...))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSlot++
	receipt := Receipt{Signature: signature, Slot: c.nextSlot, BlockTime: time.Now().UTC()}
	c.submissions[signature] = receipt
	return receipt, nil
}

func (c *MockClient) Verify(_ context.Context, signature string) (VerifyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := VerifyResult{ExplorerURL: ExplorerURL(NetworkDevnet, signature)}
	receipt, ok := c.submissions[signature]
	if !ok {
		return result, nil
	}
	result.Found = true
	result.Slot = receipt.Slot
	bt := receipt.BlockTime
	result.BlockTime = &bt
	return result, nil
}

// Submissions returns the number of anchored hashes.
func (c *MockClient) Submissions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.submissions)
}
