package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Rafuego/symphony-v3/internal/repository"
	"github.com/Rafuego/symphony-v3/internal/utils"
)

type NotificationHTTP struct {
	repo repository.NotificationRepository
}

func NewNotificationHTTP(repo repository.NotificationRepository) *NotificationHTTP {
	return &NotificationHTTP{repo: repo}
}

// GET /api/notifications?unread=true&limit=50
func (h *NotificationHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		unreadOnly := qv.Get("unread") == "true"
		limit := utils.QueryInt(qv, "limit", 50)

		items, err := h.repo.List(r.Context(), unreadOnly, limit)
		if err != nil {
			serviceError(w, err)
			return
		}
		unread, err := h.repo.CountUnread(r.Context())
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{
			"notifications": items,
			"unreadCount":   unread,
		})
	}
}

// PATCH /api/notifications — mark some or all as read.
func (h *NotificationHTTP) MarkRead() http.HandlerFunc {
	type inDTO struct {
		IDs         []string `json:"ids"`
		MarkAllRead bool     `json:"markAllRead"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var err error
		switch {
		case in.MarkAllRead:
			err = h.repo.MarkAllRead(r.Context())
		case len(in.IDs) > 0:
			err = h.repo.MarkRead(r.Context(), in.IDs)
		}
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// DELETE /api/notifications?days=30 — prune old read notifications.
func (h *NotificationHTTP) Prune() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := utils.QueryInt(r.URL.Query(), "days", 30)
		if err := h.repo.DeleteReadBefore(r.Context(), days); err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
