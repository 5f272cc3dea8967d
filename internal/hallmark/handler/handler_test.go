package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orbit/internal/anchor"
	anchorstore "orbit/internal/anchor/store"
	"orbit/internal/audit"
	auditstore "orbit/internal/audit/store"
	"orbit/internal/counter"
	masterstore "orbit/internal/counter/store/master"
	"orbit/internal/hallmark/service"
	hallmarkstore "orbit/internal/hallmark/store"
	"orbit/internal/ledger"
)

func newHallmarkRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hallmarks := hallmarkstore.NewInMemory()
	auditor := audit.NewPublisher(auditstore.NewInMemory(), nil, logger)
	anchors := anchor.NewService(anchorstore.NewInMemory(), hallmarks, ledger.NewMockClient(), nil, auditor, logger, nil)
	master := counter.NewMasterRegistry(masterstore.NewInMemory())
	svc := service.NewService(hallmarks, master, nil, nil, anchors, auditor, logger, nil)

	router := chi.NewRouter()
	New(svc, anchors, logger).Register(router)
	return router
}

func issueHallmark(t *testing.T, router chi.Router, payload map[string]any) service.IssueResult {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/hallmarks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 issuing hallmark, got %d: %s", rec.Code, rec.Body.String())
	}

	var result service.IssueResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode issue response: %v", err)
	}
	return result
}

func issuePayload() map[string]any {
	return map[string]any{
		"assetType":     "contract",
		"recipientName": "Acme Co",
		"recipientRole": "client",
		"createdBy":     "admin",
		"content":       "signed contract body",
	}
}

func TestIssueAndLookupViaHandlers(t *testing.T) {
	router := newHallmarkRouter(t)

	issued := issueHallmark(t, router, issuePayload())
	if issued.Hallmark.HallmarkNumber == "" {
		t.Fatalf("expected hallmark number in response")
	}
	if !issued.Blockchain.Queued {
		t.Fatalf("expected contract hallmark to be queued for anchoring")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/hallmarks/"+issued.Hallmark.HallmarkNumber, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 looking up hallmark, got %d", rec.Code)
	}

	var lookup service.LookupResult
	if err := json.NewDecoder(rec.Body).Decode(&lookup); err != nil {
		t.Fatalf("failed to decode lookup response: %v", err)
	}
	if lookup.Hallmark.ID != issued.Hallmark.ID {
		t.Fatalf("expected lookup to return the issued hallmark")
	}
	if lookup.Badge.Tier != "Standard" {
		t.Fatalf("expected Standard badge for date-scheme number, got %q", lookup.Badge.Tier)
	}
}

func TestIssueMasterNumberViaHandler(t *testing.T) {
	router := newHallmarkRouter(t)

	payload := issuePayload()
	payload["useAssetNumber"] = true
	issued := issueHallmark(t, router, payload)
	if issued.Hallmark.HallmarkNumber != "#000003001-00" {
		t.Fatalf("expected first master number #000003001-00, got %q", issued.Hallmark.HallmarkNumber)
	}
}

func TestIssueValidationError(t *testing.T) {
	router := newHallmarkRouter(t)

	payload := issuePayload()
	delete(payload, "content")
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/hallmarks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing content, got %d", rec.Code)
	}
}

func TestLookupNotFound(t *testing.T) {
	router := newHallmarkRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/hallmarks/ORBIT-20260901-FFFFFF", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown hallmark, got %d", rec.Code)
	}
}

func TestVerifyAlwaysReturns200(t *testing.T) {
	router := newHallmarkRouter(t)

	for _, number := range []string{"garbage", "ORBIT-20260901-FFFFFF"} {
		req := httptest.NewRequest(http.MethodGet, "/api/verify/"+number, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 verifying %q, got %d", number, rec.Code)
		}

		var result service.VerifyResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode verify response: %v", err)
		}
		if result.Valid {
			t.Fatalf("expected valid=false for %q", number)
		}
	}
}

func TestVerifyKnownHallmark(t *testing.T) {
	router := newHallmarkRouter(t)
	issued := issueHallmark(t, router, issuePayload())

	req := httptest.NewRequest(http.MethodGet, "/api/verify/"+issued.Hallmark.HallmarkNumber, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var result service.VerifyResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode verify response: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid=true for issued hallmark")
	}
	if result.Hallmark == nil || result.Hallmark.VerifiedAt == nil {
		t.Fatalf("expected verifiedAt to be stamped on first verification")
	}
}

func TestBadgeEndpoint(t *testing.T) {
	router := newHallmarkRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/hallmarks/%23000000002-00/badge", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for badge, got %d", rec.Code)
	}

	var badge struct {
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&badge); err != nil {
		t.Fatalf("failed to decode badge response: %v", err)
	}
	if badge.Tier != "Founding Asset" {
		t.Fatalf("expected Founding Asset badge for master 2, got %q", badge.Tier)
	}
}

func TestFoundingAssetsEndpoint(t *testing.T) {
	router := newHallmarkRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/hallmarks/founding-assets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for founding assets, got %d", rec.Code)
	}

	var assets map[string]struct {
		Number string `json:"number"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&assets); err != nil {
		t.Fatalf("failed to decode founding assets: %v", err)
	}
	if _, ok := assets["ORBIT_GENESIS"]; !ok {
		t.Fatalf("expected ORBIT_GENESIS founding asset")
	}
}

func TestListFiltersByType(t *testing.T) {
	router := newHallmarkRouter(t)
	issueHallmark(t, router, issuePayload())

	other := issuePayload()
	other["assetType"] = "invoice"
	issueHallmark(t, router, other)

	req := httptest.NewRequest(http.MethodGet, "/api/hallmarks?type=invoice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing hallmarks, got %d", rec.Code)
	}

	var list struct {
		Hallmarks []map[string]any `json:"hallmarks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(list.Hallmarks) != 1 {
		t.Fatalf("expected 1 invoice hallmark, got %d", len(list.Hallmarks))
	}
}

func TestAuditTrailMalformedID(t *testing.T) {
	router := newHallmarkRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/hallmarks/not-a-uuid/audit", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestManualAnchorViaHandler(t *testing.T) {
	router := newHallmarkRouter(t)
	issued := issueHallmark(t, router, issuePayload())

	req := httptest.NewRequest(http.MethodPost, "/api/hallmarks/"+issued.Hallmark.ID.String()+"/anchor", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 anchoring, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Blockchain struct {
			Signature   string `json:"signature"`
			ExplorerURL string `json:"explorerUrl"`
		} `json:"blockchain"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode anchor response: %v", err)
	}
	if result.Blockchain.Signature == "" {
		t.Fatalf("expected transaction signature in anchor response")
	}
}

func TestAnchorUnknownHallmark(t *testing.T) {
	router := newHallmarkRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/hallmarks/"+uuid.New().String()+"/anchor", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 anchoring unknown hallmark, got %d", rec.Code)
	}
}
