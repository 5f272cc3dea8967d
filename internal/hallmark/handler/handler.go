package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orbit/internal/anchor"
	"orbit/internal/audit"
	"orbit/internal/hallmark"
	"orbit/internal/hallmark/service"
	dErrors "orbit/pkg/domain-errors"
	"orbit/pkg/platform/httputil"
	"orbit/pkg/requestcontext"
)

// Service defines the hallmark operations the handler depends on.
type Service interface {
	Issue(ctx context.Context, params service.IssueParams) (*service.IssueResult, error)
	Lookup(ctx context.Context, number string) (*service.LookupResult, error)
	Get(ctx context.Context, id uuid.UUID) (*hallmark.Hallmark, error)
	Classify(number string) hallmark.Badge
	PublicVerify(ctx context.Context, number string) *service.VerifyResult
	List(ctx context.Context) ([]*hallmark.Hallmark, error)
	ListByType(ctx context.Context, assetType string) ([]*hallmark.Hallmark, error)
	Search(ctx context.Context, term string) ([]*hallmark.Hallmark, error)
	AuditTrail(ctx context.Context, id uuid.UUID) ([]audit.Entry, error)
}

// Anchors defines the anchoring operations exposed over HTTP.
type Anchors interface {
	Anchor(ctx context.Context, hallmarkID uuid.UUID, tenantPrefix string) (*anchor.QueueEntry, error)
}

// Handler serves the hallmark endpoints.
type Handler struct {
	hallmarks Service
	anchors   Anchors
	logger    *slog.Logger
}

func New(hallmarks Service, anchors Anchors, logger *slog.Logger) *Handler {
	return &Handler{hallmarks: hallmarks, anchors: anchors, logger: logger}
}

// Register mounts the hallmark routes. The {number} segment is a hallmark
// number for lookup and badge, and a hallmark id for audit and anchor.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/hallmarks", func(r chi.Router) {
		r.Post("/", h.handleIssue)
		r.Get("/", h.handleList)
		r.Get("/founding-assets", h.handleFoundingAssets)
		r.Route("/{number}", func(r chi.Router) {
			r.Get("/", h.handleLookup)
			r.Get("/badge", h.handleBadge)
			r.Get("/audit", h.handleAuditTrail)
			r.Post("/anchor", h.handleAnchor)
		})
	})
	r.Get("/api/verify/{number}", h.handleVerify)
}

// numberParam returns the {number} segment percent-decoded. Master-scheme
// numbers contain '#' and only reach us URL-encoded.
func numberParam(r *http.Request) string {
	raw := chi.URLParam(r, "number")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

type issueRequest struct {
	AssetType      string         `json:"assetType"`
	RecipientName  string         `json:"recipientName"`
	RecipientRole  string         `json:"recipientRole"`
	CreatedBy      string         `json:"createdBy"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ReferenceID    string         `json:"referenceId,omitempty"`
	UseAssetNumber bool           `json:"useAssetNumber,omitempty"`
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[issueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.hallmarks.Issue(ctx, service.IssueParams{
		AssetType:       req.AssetType,
		RecipientName:   req.RecipientName,
		RecipientRole:   req.RecipientRole,
		CreatedBy:       req.CreatedBy,
		Content:         req.Content,
		Metadata:        req.Metadata,
		ReferenceID:     req.ReferenceID,
		UseMasterNumber: req.UseAssetNumber,
	})
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "issuing hallmark failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		hallmarks []*hallmark.Hallmark
		err       error
	)
	switch {
	case r.URL.Query().Get("search") != "":
		hallmarks, err = h.hallmarks.Search(ctx, r.URL.Query().Get("search"))
	case r.URL.Query().Get("type") != "":
		hallmarks, err = h.hallmarks.ListByType(ctx, r.URL.Query().Get("type"))
	default:
		hallmarks, err = h.hallmarks.List(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "listing hallmarks failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if hallmarks == nil {
		hallmarks = []*hallmark.Hallmark{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"hallmarks": hallmarks})
}

func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	result, err := h.hallmarks.Lookup(r.Context(), numberParam(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleBadge(w http.ResponseWriter, r *http.Request) {
	badge := h.hallmarks.Classify(numberParam(r))
	httputil.WriteJSON(w, http.StatusOK, badge)
}

func (h *Handler) handleFoundingAssets(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, hallmark.FoundingAssets())
}

func (h *Handler) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "number"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed hallmark id"))
		return
	}
	entries, err := h.hallmarks.AuditTrail(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"audit": entries})
}

type anchorRequest struct {
	TenantPrefix string `json:"tenantPrefix,omitempty"`
}

func (h *Handler) handleAnchor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "number"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed hallmark id"))
		return
	}

	var req anchorRequest
	if r.ContentLength > 0 {
		var ok bool
		req, ok = httputil.DecodeAndPrepare[anchorRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
	}

	entry, err := h.anchors.Anchor(ctx, id, req.TenantPrefix)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual anchor failed",
			"request_id", requestID,
			"hallmark_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.hallmarks.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"hallmark": updated,
		"blockchain": map[string]string{
			"signature":   entry.TxSignature,
			"explorerUrl": updated.BlockchainExplorerURL,
		},
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	result := h.hallmarks.PublicVerify(r.Context(), numberParam(r))
	httputil.WriteJSON(w, http.StatusOK, result)
}
