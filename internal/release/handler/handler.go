package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orbit/internal/release"
	"orbit/internal/release/service"
	dErrors "orbit/pkg/domain-errors"
	"orbit/pkg/platform/httputil"
	"orbit/pkg/requestcontext"
)

// Service defines the release operations the handler depends on.
type Service interface {
	Bump(ctx context.Context, tenantID string, bump release.BumpType, notes string) (*service.BumpResult, error)
	Latest(ctx context.Context, tenantID string) (*release.Version, error)
	List(ctx context.Context, tenantID string) ([]*release.Version, error)
	Stamp(ctx context.Context, id uuid.UUID) (*release.Version, error)
}

// Handler serves the release endpoints.
type Handler struct {
	releases Service
	logger   *slog.Logger
}

func New(releases Service, logger *slog.Logger) *Handler {
	return &Handler{releases: releases, logger: logger}
}

// Register mounts the release routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/releases", func(r chi.Router) {
		r.Post("/bump", h.handleBump)
		r.Get("/latest", h.handleLatest)
		r.Get("/", h.handleList)
		r.Post("/{id}/stamp", h.handleStamp)
	})
}

type bumpRequest struct {
	TenantID     string `json:"tenantId"`
	BumpType     string `json:"bumpType"`
	ReleaseNotes string `json:"releaseNotes,omitempty"`
}

func (h *Handler) handleBump(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[bumpRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	bump, err := release.ParseBumpType(req.BumpType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.releases.Bump(ctx, req.TenantID, bump, req.ReleaseNotes)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "release bump failed",
				"request_id", requestID,
				"tenant", req.TenantID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"release":  result.Release,
		"hallmark": result.Hallmark,
		"message":  "Release " + result.Release.Version + " hallmarked",
	})
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "tenantId query parameter is required"))
		return
	}
	v, err := h.releases.Latest(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "tenantId query parameter is required"))
		return
	}
	versions, err := h.releases.List(r.Context(), tenantID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing releases failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"tenant", tenantID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if versions == nil {
		versions = []*release.Version{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"releases": versions})
}

func (h *Handler) handleStamp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed release id"))
		return
	}
	v, err := h.releases.Stamp(ctx, id)
	if err != nil {
		if v != nil {
			// The stamp failed but the attempt was recorded on the release.
			httputil.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"release": v,
				"error":   dErrors.CodeOf(err),
			})
			return
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}
