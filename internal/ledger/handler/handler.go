// Package handler exposes developer tooling for the ledger wallet. It is
// mounted only when the server targets devnet; the airdrop faucet and the
// secret-key-returning generate endpoint must never reach mainnet.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"orbit/internal/ledger"
	dErrors "orbit/pkg/domain-errors"
	"orbit/pkg/platform/httputil"
	"orbit/pkg/requestcontext"
)

// Client defines the ledger operations the dev endpoints depend on.
type Client interface {
	RequestAirdrop(ctx context.Context, address string, lamports uint64) (string, error)
	Balance(ctx context.Context, address string) (uint64, error)
	Network() string
}

// Handler serves the devnet wallet endpoints.
type Handler struct {
	client Client
	wallet *ledger.Wallet
	logger *slog.Logger
}

// New builds the dev wallet handler. wallet may be nil when no credential is
// configured; balance and airdrop then require an explicit address.
func New(client Client, wallet *ledger.Wallet, logger *slog.Logger) *Handler {
	return &Handler{client: client, wallet: wallet, logger: logger}
}

// Register mounts the dev wallet routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/dev/wallet", func(r chi.Router) {
		r.Post("/", h.handleGenerate)
		r.Get("/", h.handleBalance)
		r.Post("/airdrop", h.handleAirdrop)
	})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	wallet, err := ledger.GenerateWallet()
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "generate wallet"))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"publicKey": wallet.PublicKeyBase58(),
		"secretKey": wallet.SecretKeyBase58(),
		"network":   h.client.Network(),
	})
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address := r.URL.Query().Get("address")
	if address == "" {
		if h.wallet == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "address is required when no wallet is configured"))
			return
		}
		address = h.wallet.PublicKeyBase58()
	}

	lamports, err := h.client.Balance(ctx, address)
	if err != nil {
		h.logger.ErrorContext(ctx, "balance lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"address", address,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"address":  address,
		"lamports": lamports,
		"network":  h.client.Network(),
	})
}

type airdropRequest struct {
	Address  string `json:"address,omitempty"`
	Lamports uint64 `json:"lamports,omitempty"`
}

func (h *Handler) handleAirdrop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[airdropRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	address := req.Address
	if address == "" {
		if h.wallet == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "address is required when no wallet is configured"))
			return
		}
		address = h.wallet.PublicKeyBase58()
	}
	lamports := req.Lamports
	if lamports == 0 {
		lamports = 1_000_000_000 // one SOL
	}

	signature, err := h.client.RequestAirdrop(ctx, address, lamports)
	if err != nil {
		h.logger.ErrorContext(ctx, "airdrop request failed",
			"request_id", requestID,
			"address", address,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"address":   address,
		"lamports":  lamports,
		"signature": signature,
	})
}
