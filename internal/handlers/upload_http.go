package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Rafuego/symphony-v3/internal/storage"
	"github.com/Rafuego/symphony-v3/internal/utils"
)

type UploadHTTP struct {
	store *storage.DiskStore
}

func NewUploadHTTP(store *storage.DiskStore) *UploadHTTP { return &UploadHTTP{store: store} }

// POST /api/upload — multipart form with "file" and "clientId" fields.
// Returns the stored descriptor; only the descriptor is ever persisted on a
// request, never the bytes.
func (h *UploadHTTP) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(storage.MaxFileSize); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "no file provided")
			return
		}
		defer file.Close()

		clientID := strings.TrimSpace(r.FormValue("clientId"))
		if clientID == "" {
			utils.Error(w, http.StatusBadRequest, "clientId is required")
			return
		}

		desc, err := h.store.Save(clientID, header.Filename, file)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrTooLarge):
				utils.Error(w, http.StatusBadRequest, "file too large, maximum 10MB")
			case errors.Is(err, storage.ErrBadFileType):
				utils.Error(w, http.StatusBadRequest, "invalid file type, only images and PDFs allowed")
			default:
				utils.Error(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		utils.JSON(w, http.StatusOK, desc)
	}
}
