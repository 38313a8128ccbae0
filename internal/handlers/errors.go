package handlers

import (
	"errors"
	"net/http"

	"github.com/Rafuego/symphony-v3/internal/service"
	"github.com/Rafuego/symphony-v3/internal/utils"
)

// serviceError maps the core's error taxonomy onto HTTP statuses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		utils.Error(w, http.StatusConflict, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
