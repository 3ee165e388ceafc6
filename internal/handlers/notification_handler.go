package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
)

// NotificationHandler serves the active notifications.
type NotificationHandler struct {
	center *notify.Center
	logger *slog.Logger
}

func NewNotificationHandler(center *notify.Center, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{center: center, logger: logger}
}

// List handles GET /api/notifications. An optional ?type= keeps only one
// severity.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	active := h.center.Active()

	raw := r.URL.Query().Get("type")
	if raw == "" {
		WriteJSON(w, http.StatusOK, active, h.logger)
		return
	}

	severity, ok := notify.ParseSeverity(raw)
	if !ok {
		WriteError(w, http.StatusBadRequest, "type must be error, success, or warning", h.logger)
		return
	}

	filtered := make([]notify.Notification, 0, len(active))
	for _, n := range active {
		if n.Severity == severity {
			filtered = append(filtered, n)
		}
	}
	WriteJSON(w, http.StatusOK, filtered, h.logger)
}

// Dismiss handles DELETE /api/notifications/{notificationId}
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if !h.center.Dismiss(chi.URLParam(r, "notificationId")) {
		WriteError(w, http.StatusNotFound, "Notification not found", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
