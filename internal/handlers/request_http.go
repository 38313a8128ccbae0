package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/repository"
	"github.com/Rafuego/symphony-v3/internal/service"
	"github.com/Rafuego/symphony-v3/internal/utils"
)

// RequestHTTP wires the request lifecycle endpoints to the scheduler core.
type RequestHTTP struct {
	svc   *service.RequestService
	files repository.FileRepository
}

func NewRequestHTTP(svc *service.RequestService, files repository.FileRepository) *RequestHTTP {
	return &RequestHTTP{svc: svc, files: files}
}

// requestPayload decorates a request with its live countdown when timed.
func requestPayload(r *models.Request) map[string]any {
	out := map[string]any{"request": r}
	if r.Status.Active() {
		if cd, ok := service.Remaining(r, time.Now()); ok {
			out["timer"] = cd
		}
	}
	return out
}

// POST /api/requests
func (h *RequestHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		ClientID    string              `json:"clientId"`
		Title       string              `json:"title"`
		Description string              `json:"description"`
		RequestType string              `json:"requestType"`
		Links       []string            `json:"links"`
		Attachments []models.Attachment `json:"attachments"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		req, err := h.svc.Submit(r.Context(), service.SubmitInput{
			ClientID:    in.ClientID,
			Title:       in.Title,
			Description: in.Description,
			RequestType: in.RequestType,
			Links:       in.Links,
			Attachments: in.Attachments,
		})
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, requestPayload(req))
	}
}

// GET /api/requests?clientId=&status=
func (h *RequestHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		f := repository.RequestFilter{
			ClientID: strings.TrimSpace(qv.Get("clientId")),
			Limit:    utils.QueryInt(qv, "limit", 100),
			Offset:   utils.QueryInt(qv, "offset", 0),
		}
		if s := strings.TrimSpace(qv.Get("status")); s != "" {
			st, err := models.ParseStatus(s)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			f.Status = st
		}

		items, err := h.svc.List(r.Context(), f)
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"requests": items, "total": len(items)})
	}
}

// GET /api/requests/{id}
func (h *RequestHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, requestPayload(req))
	}
}

// PATCH /api/requests/{id}
func (h *RequestHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Title              *string              `json:"title"`
		Description        *string              `json:"description"`
		RequestType        *string              `json:"requestType"`
		Links              *[]string            `json:"links"`
		Attachments        *[]models.Attachment `json:"attachments"`
		Status             *string              `json:"status"`
		Priority           *int                 `json:"priority"`
		AdminNotes         *string              `json:"adminNotes"`
		ExtensionRequested *bool                `json:"extensionRequested"`
		ExtensionNote      *string              `json:"extensionNote"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		req, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateInput{
			Title:              in.Title,
			Description:        in.Description,
			RequestType:        in.RequestType,
			Links:              in.Links,
			Attachments:        in.Attachments,
			Status:             in.Status,
			Priority:           in.Priority,
			AdminNotes:         in.AdminNotes,
			ExtensionRequested: in.ExtensionRequested,
			ExtensionNote:      in.ExtensionNote,
		})
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, requestPayload(req))
	}
}

// DELETE /api/requests/{id}
func (h *RequestHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// POST /api/requests/reorder
func (h *RequestHTTP) Reorder() http.HandlerFunc {
	type inDTO struct {
		ClientID  string `json:"clientId"`
		RequestID string `json:"requestId"`
		Direction string `json:"direction"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		dir, err := models.ParseDirection(in.Direction)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := h.svc.Move(r.Context(), in.ClientID, in.RequestID, dir); err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// POST /api/requests/{id}/extension
func (h *RequestHTTP) Extend() http.HandlerFunc {
	type inDTO struct {
		Hours int    `json:"hours"`
		Note  string `json:"note"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		req, err := h.svc.RequestExtension(r.Context(), chi.URLParam(r, "id"), in.Hours, in.Note)
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, requestPayload(req))
	}
}

// POST /api/requests/{id}/files
func (h *RequestHTTP) AddFile() http.HandlerFunc {
	type inDTO struct {
		Name     string `json:"name"`
		URL      string `json:"url"`
		FileType string `json:"fileType"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		in.URL = strings.TrimSpace(in.URL)
		if in.Name == "" || in.URL == "" {
			utils.Error(w, http.StatusBadRequest, "name and url are required")
			return
		}

		f := &models.RequestFile{
			RequestID: chi.URLParam(r, "id"),
			Name:      in.Name,
			URL:       in.URL,
			FileType:  in.FileType,
		}
		if err := h.files.Add(r.Context(), f); err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]any{"file": f})
	}
}

// DELETE /api/requests/{id}/files?fileId=
func (h *RequestHTTP) DeleteFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID := strings.TrimSpace(r.URL.Query().Get("fileId"))
		if fileID == "" {
			utils.Error(w, http.StatusBadRequest, "fileId is required")
			return
		}
		if err := h.files.Delete(r.Context(), fileID); err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
