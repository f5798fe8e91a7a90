package auditlog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/deephydro/hydrodash/internal/app/features/errors"
	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/system/auth"
	actionlog "github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler() (*Handler, *audit.Store) {
	store := audit.New()
	logger := zap.NewNop()
	return NewHandler(
		store,
		actionlog.New(store, logger, actionlog.Config{}),
		uierrors.NewErrorLogger(logger),
		logger,
	), store
}

func adminGet(target string) *http.Request {
	return testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.AdminUser())
}

func TestServeList_ShowsEntriesMostRecentFirst(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, store := newTestHandler()
	store.Record(audit.ActionUpload, map[string]string{"success": "true", "filename": "levels.xlsx"})
	store.Record(audit.ActionForecast, map[string]string{"success": "false", "error": "months out of range"})

	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, adminGet("/admin/audit"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Audit Log")
	rec.AssertContains(t, "filename=levels.xlsx")
	rec.AssertContains(t, "months out of range")

	body := rec.Body.String()
	if strings.Index(body, "forecast") > strings.Index(body, "filename=levels.xlsx") {
		t.Error("entries are not most recent first")
	}
}

func TestServeList_FiltersByAction(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, store := newTestHandler()
	store.Record(audit.ActionUpload, map[string]string{"success": "true", "filename": "levels.xlsx"})
	store.Record(audit.ActionReset, map[string]string{"success": "true"})

	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, adminGet("/admin/audit?action=reset"))

	rec.AssertStatus(t, http.StatusOK)
	if strings.Contains(rec.Body.String(), "filename=levels.xlsx") {
		t.Error("upload entry shown despite reset filter")
	}
}

func TestServeList_Paginates(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, store := newTestHandler()
	for i := 0; i < pageSize+5; i++ {
		store.Record(audit.ActionChat, map[string]string{"success": "true", "n": fmt.Sprint(i)})
	}

	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, adminGet("/admin/audit?page=2"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Page 2 of 2")
}

func TestServeExport_StreamsCSVAndRecordsItself(t *testing.T) {
	h, store := newTestHandler()
	store.Record(audit.ActionUpload, map[string]string{"success": "true", "filename": "levels.xlsx"})

	rec := httptest.NewRecorder()
	h.ServeExport(rec, adminGet("/admin/audit/export.csv"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "audit_log_") {
		t.Errorf("Content-Disposition = %q, want a dated filename", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "timestamp,action,success,error,details") {
		t.Errorf("header row missing from %q", body)
	}
	if !strings.Contains(body, "filename=levels.xlsx") {
		t.Errorf("flattened details missing from %q", body)
	}

	// The download itself is appended after the snapshot was taken.
	entries := store.List()
	if len(entries) != 2 || entries[0].Action != audit.ActionAuditExport {
		t.Errorf("entries = %+v, want the export recorded on top", entries)
	}
}

func TestServeExport_EmptyLogIs400(t *testing.T) {
	h, _ := newTestHandler()

	rec := httptest.NewRecorder()
	h.ServeExport(rec, adminGet("/admin/audit/export.csv"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRoutes_RequireAdmin(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, store := newTestHandler()
	store.Record(audit.ActionUpload, map[string]string{"success": "true"})

	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "test-session", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	router := Routes(h, sm)

	rec := httptest.NewRecorder()
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.TestUser{Name: "V", LoginID: "viewer", Role: "viewer"})
	req.Header.Set("Accept", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, adminGet("/"))
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
}
