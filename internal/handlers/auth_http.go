package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rafuego/symphony-v3/internal/service"
	"github.com/Rafuego/symphony-v3/internal/utils"
)

type AuthHTTP struct {
	svc *service.AuthService
}

func NewAuthHTTP(svc *service.AuthService) *AuthHTTP { return &AuthHTTP{svc: svc} }

func setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   24 * 60 * 60,
	})
}

// POST /api/client/verify — portal login with access token + optional password.
func (h *AuthHTTP) VerifyClient() http.HandlerFunc {
	type inDTO struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.Token == "" {
			utils.Error(w, http.StatusBadRequest, "access token required")
			return
		}

		tok, client, err := h.svc.VerifyClient(r.Context(), in.Token, in.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				utils.Error(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		setSession(w, tok)
		utils.JSON(w, http.StatusOK, map[string]any{"token": tok, "client": client})
	}
}

// POST /api/admin/verify — admin login with the shared password.
func (h *AuthHTTP) VerifyAdmin() http.HandlerFunc {
	type inDTO struct {
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		tok, err := h.svc.VerifyAdmin(in.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				utils.Error(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		setSession(w, tok)
		utils.JSON(w, http.StatusOK, map[string]any{"token": tok})
	}
}
