package audithandler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/auth"
	"peopleops/internal/transport/http/middleware"
)

func TestAuditRoutesRequireHRRole(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", Role: auth.RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Auth(secret))
	NewHandler(&audit.Service{}).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/audit/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestFilterFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("action", "  leave.decide ")
	q.Set("entityType", "leave_request")
	q.Set("actorId", "u1")
	q.Set("details", "true")

	filter, includeDetails := filterFromQuery(q)
	if filter.Action != "leave.decide" {
		t.Fatalf("unexpected action: %q", filter.Action)
	}
	if filter.EntityType != "leave_request" || filter.ActorUser != "u1" {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if !includeDetails {
		t.Fatal("expected details to be included")
	}

	filter, includeDetails = filterFromQuery(url.Values{})
	if filter != (audit.Filter{}) || includeDetails {
		t.Fatalf("expected empty filter, got %+v details=%v", filter, includeDetails)
	}
}
