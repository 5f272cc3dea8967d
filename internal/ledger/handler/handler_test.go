package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"orbit/internal/ledger"
	dErrors "orbit/pkg/domain-errors"
)

type fakeClient struct {
	balances map[string]uint64
	airdrops []string
	fail     error
}

func (f *fakeClient) RequestAirdrop(_ context.Context, address string, _ uint64) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.airdrops = append(f.airdrops, address)
	return "airdrop-sig", nil
}

func (f *fakeClient) Balance(_ context.Context, address string) (uint64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	return f.balances[address], nil
}

func (f *fakeClient) Network() string { return ledger.NetworkDevnet }

func newDevRouter(t *testing.T, client Client, wallet *ledger.Wallet) chi.Router {
	t.Helper()
	router := chi.NewRouter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	New(client, wallet, logger).Register(router)
	return router
}

func TestGenerateWalletViaHandler(t *testing.T) {
	router := newDevRouter(t, &fakeClient{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dev/wallet", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		PublicKey string `json:"publicKey"`
		SecretKey string `json:"secretKey"`
		Network   string `json:"network"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Network != ledger.NetworkDevnet {
		t.Fatalf("expected devnet, got %q", body.Network)
	}
	wallet, err := ledger.WalletFromBase58(body.SecretKey)
	if err != nil {
		t.Fatalf("returned secret key does not decode: %v", err)
	}
	if wallet.PublicKeyBase58() != body.PublicKey {
		t.Fatalf("public key %q does not match secret key", body.PublicKey)
	}
}

func TestBalanceUsesConfiguredWallet(t *testing.T) {
	wallet, err := ledger.GenerateWallet()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	client := &fakeClient{balances: map[string]uint64{wallet.PublicKeyBase58(): 42}}
	router := newDevRouter(t, client, wallet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dev/wallet", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Address  string `json:"address"`
		Lamports uint64 `json:"lamports"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Address != wallet.PublicKeyBase58() {
		t.Fatalf("expected configured wallet address, got %q", body.Address)
	}
	if body.Lamports != 42 {
		t.Fatalf("expected 42 lamports, got %d", body.Lamports)
	}
}

func TestBalanceWithoutWalletRequiresAddress(t *testing.T) {
	router := newDevRouter(t, &fakeClient{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dev/wallet", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAirdropToExplicitAddress(t *testing.T) {
	client := &fakeClient{}
	router := newDevRouter(t, client, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/dev/wallet/airdrop",
		strings.NewReader(`{"address":"SomeDevnetAddress"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Address   string `json:"address"`
		Lamports  uint64 `json:"lamports"`
		Signature string `json:"signature"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Signature != "airdrop-sig" {
		t.Fatalf("expected airdrop signature, got %q", body.Signature)
	}
	if body.Lamports == 0 {
		t.Fatal("expected a default lamport amount")
	}
	if len(client.airdrops) != 1 || client.airdrops[0] != "SomeDevnetAddress" {
		t.Fatalf("expected one airdrop to the given address, got %v", client.airdrops)
	}
}

func TestAirdropErrorPropagates(t *testing.T) {
	client := &fakeClient{fail: dErrors.New(dErrors.CodeUnavailable, "faucet dry")}
	router := newDevRouter(t, client, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/dev/wallet/airdrop",
		strings.NewReader(`{"address":"SomeDevnetAddress"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
}
