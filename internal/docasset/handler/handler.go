package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orbit/internal/counter"
	"orbit/internal/docasset"
	dErrors "orbit/pkg/domain-errors"
	"orbit/pkg/platform/httputil"
	"orbit/pkg/requestcontext"
)

// Service defines the document-asset operations the handler depends on.
type Service interface {
	Create(ctx context.Context, params docasset.CreateParams) (*docasset.DocumentAsset, error)
	Get(ctx context.Context, id uuid.UUID) (*docasset.DocumentAsset, error)
	List(ctx context.Context, tenantID string) ([]*docasset.DocumentAsset, error)
	HashToSolana(ctx context.Context, id uuid.UUID) (*docasset.DocumentAsset, error)
	Counter(ctx context.Context, tenantID string) (*counter.TenantCounter, error)
}

// Handler serves the document-asset endpoints.
type Handler struct {
	assets Service
	logger *slog.Logger
}

func New(assets Service, logger *slog.Logger) *Handler {
	return &Handler{assets: assets, logger: logger}
}

// Register mounts the document-asset routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/document-assets", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Post("/{id}/hash", h.handleHash)
	})
	r.Get("/api/tenant-counter/{tenantId}", h.handleCounter)
}

type createRequest struct {
	TenantID     string `json:"tenantId"`
	SourceType   string `json:"sourceType"`
	SourceID     string `json:"sourceId"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	HashToSolana bool   `json:"hashToSolana,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[createRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	asset, err := h.assets.Create(ctx, docasset.CreateParams{
		TenantID:     req.TenantID,
		SourceType:   req.SourceType,
		SourceID:     req.SourceID,
		Title:        req.Title,
		Content:      req.Content,
		HashToSolana: req.HashToSolana,
	})
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "creating document asset failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, asset)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.List(r.Context(), r.URL.Query().Get("tenantId"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing document assets failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if assets == nil {
		assets = []*docasset.DocumentAsset{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"documentAssets": assets})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed document asset id"))
		return
	}
	asset, err := h.assets.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, asset)
}

func (h *Handler) handleHash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed document asset id"))
		return
	}
	asset, err := h.assets.HashToSolana(ctx, id)
	if err != nil {
		if asset != nil {
			// The attempt failed but its outcome is recorded on the asset.
			httputil.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"documentAsset": asset,
				"error":         dErrors.CodeOf(err),
			})
			return
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, asset)
}

func (h *Handler) handleCounter(w http.ResponseWriter, r *http.Request) {
	counterState, err := h.assets.Counter(r.Context(), chi.URLParam(r, "tenantId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counterState)
}
