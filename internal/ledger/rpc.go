package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "orbit/pkg/domain-errors"
)

// RPCClient talks to a Solana JSON-RPC endpoint. It holds no locks: callers
// must finish all counter work before invoking it, since submission plus
// confirmation can block for seconds.
type RPCClient struct {
	httpClient     *http.Client
	endpoint       string
	network        string
	wallet         *Wallet
	confirmTimeout time.Duration
}

// RPCOption customizes an RPCClient.
type RPCOption func(*RPCClient)

// WithEndpoint overrides the default cluster endpoint.
func WithEndpoint(url string) RPCOption {
	return func(c *RPCClient) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithHTTPClient injects a custom HTTP client (tests).
func WithHTTPClient(hc *http.Client) RPCOption {
	return func(c *RPCClient) { c.httpClient = hc }
}

// NewRPCClient builds a client for the given network. wallet may be nil, in
// which case Submit reports the not-configured condition and Verify still
// works (it needs no credential).
func NewRPCClient(network string, wallet *Wallet, confirmTimeout time.Duration, opts ...RPCOption) *RPCClient {
	endpoint, ok := rpcEndpoints[network]
	if !ok {
		network = NetworkDevnet
		endpoint = rpcEndpoints[NetworkDevnet]
	}
	c := &RPCClient{
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		endpoint:       endpoint,
		network:        network,
		wallet:         wallet,
		confirmTimeout: confirmTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RPCClient) Configured() bool { return c.wallet != nil }

func (c *RPCClient) Network() string { return c.network }

// Submit anchors the content hash and waits for confirmation, bounded by the
// confirm timeout. A timeout is reported as an error; the caller records the
// failure and moves on.
func (c *RPCClient) Submit(ctx context.Context, contentHash string, ref EntityRef, tenantPrefix string) (Receipt, error) {
	if c.wallet == nil {
		return Receipt{}, dErrors.New(dErrors.CodeNotConfigured, "ledger wallet not configured")
	}

	blockhash, err := c.latestBlockhash(ctx)
	if err != nil {
		return Receipt{}, err
	}

	memo := BuildMemo(tenantPrefix, ref, contentHash)
	tx, err := buildAnchorTransaction(c.wallet, blockhash, memo)
	if err != nil {
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeInternal, "build anchor transaction")
	}

	var signature string
	err = c.call(ctx, "sendTransaction", []any{
		base64.StdEncoding.EncodeToString(tx),
		map[string]any{"encoding": "base64", "preflightCommitment": "confirmed"},
	}, &signature)
	if err != nil {
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "send anchor transaction")
	}

	if err := c.awaitConfirmation(ctx, signature); err != nil {
		return Receipt{}, err
	}

	slot, blockTime, err := c.transactionMeta(ctx, signature)
	if err != nil {
		// Confirmed but metadata lookup failed; the receipt is still valid.
		return Receipt{Signature: signature, BlockTime: time.Now().UTC()}, nil
	}
	return Receipt{Signature: signature, Slot: slot, BlockTime: blockTime}, nil
}

// Verify looks up a signature. A missing transaction is a Found=false
// result, not an error.
func (c *RPCClient) Verify(ctx context.Context, signature string) (VerifyResult, error) {
	result := VerifyResult{ExplorerURL: ExplorerURL(c.network, signature)}

	slot, blockTime, err := c.transactionMeta(ctx, signature)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return result, nil
		}
		return result, err
	}
	result.Found = true
	result.Slot = slot
	if !blockTime.IsZero() {
		result.BlockTime = &blockTime
	}
	return result, nil
}

// RequestAirdrop asks the cluster faucet to fund an address. The faucet only
// exists on devnet; other networks reject the request before any RPC call.
func (c *RPCClient) RequestAirdrop(ctx context.Context, address string, lamports uint64) (string, error) {
	if c.network != NetworkDevnet {
		return "", dErrors.New(dErrors.CodeBadRequest, "airdrops are available on devnet only")
	}
	var signature string
	if err := c.call(ctx, "requestAirdrop", []any{address, lamports}, &signature); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "request airdrop")
	}
	return signature, nil
}

// Balance returns the lamport balance of an address.
func (c *RPCClient) Balance(ctx context.Context, address string) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	err := c.call(ctx, "getBalance", []any{address, map[string]any{"commitment": "confirmed"}}, &result)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "fetch balance")
	}
	return result.Value, nil
}

func (c *RPCClient) awaitConfirmation(ctx context.Context, signature string) error {
	deadline := time.Now().Add(c.confirmTimeout)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		var statuses struct {
			Value []*struct {
				ConfirmationStatus string `json:"confirmationStatus"`
				Err                any    `json:"err"`
			} `json:"value"`
		}
		err := c.call(ctx, "getSignatureStatuses", []any{
			[]string{signature},
			map[string]any{"searchTransactionHistory": false},
		}, &statuses)
		if err == nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return dErrors.New(dErrors.CodeUnavailable, "anchor transaction rejected by cluster")
			}
			if status.ConfirmationStatus == "confirmed" || status.ConfirmationStatus == "finalized" {
				return nil
			}
		}

		if time.Now().After(deadline) {
			return dErrors.New(dErrors.CodeTimeout, "anchor confirmation timed out")
		}
		select {
		case <-ctx.Done():
			return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "anchor confirmation cancelled")
		case <-ticker.C:
		}
	}
}

func (c *RPCClient) latestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	err := c.call(ctx, "getLatestBlockhash", []any{map[string]any{"commitment": "confirmed"}}, &result)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "fetch recent blockhash")
	}
	return result.Value.Blockhash, nil
}

func (c *RPCClient) transactionMeta(ctx context.Context, signature string) (uint64, time.Time, error) {
	var result *struct {
		Slot      uint64 `json:"slot"`
		BlockTime *int64 `json:"blockTime"`
	}
	err := c.call(ctx, "getTransaction", []any{
		signature,
		map[string]any{
			"encoding":                       "json",
			"commitment":                     "confirmed",
			"maxSupportedTransactionVersion": 0,
		},
	}, &result)
	if err != nil {
		return 0, time.Time{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "fetch transaction")
	}
	if result == nil {
		return 0, time.Time{}, dErrors.New(dErrors.CodeNotFound, "transaction not found")
	}

	var blockTime time.Time
	if result.BlockTime != nil {
		blockTime = time.Unix(*result.BlockTime, 0).UTC()
	}
	return result.Slot, blockTime, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s: %w", method, envelope.Error)
	}
	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("unmarshal %s result: %w", method, err)
		}
	}
	return nil
}
