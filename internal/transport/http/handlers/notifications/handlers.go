package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/notifications"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleList)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	items, err := h.Service.List(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_failed", "failed to list notifications", requestID)
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	count, err := h.Service.CountUnread(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_failed", "failed to count notifications", requestID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "notificationID")

	if err := h.Service.MarkRead(r.Context(), user.UserID, id); err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_failed", "failed to mark notification read", requestID)
		return
	}
	api.Success(w, map[string]string{"id": id}, requestID)
}
