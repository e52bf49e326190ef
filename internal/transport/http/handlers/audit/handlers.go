package audithandler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/auth"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleHR))
		r.Get("/", h.handleList)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	filter, includeDetails := filterFromQuery(r.URL.Query())

	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to count audit events", requestID)
		return
	}
	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to list audit events", requestID)
		return
	}
	api.Success(w, map[string]any{"items": events, "total": total}, requestID)
}

func filterFromQuery(q url.Values) (audit.Filter, bool) {
	filter := audit.Filter{
		Action:     strings.TrimSpace(q.Get("action")),
		EntityType: strings.TrimSpace(q.Get("entityType")),
		ActorUser:  strings.TrimSpace(q.Get("actorId")),
	}
	return filter, q.Get("details") == "true"
}
