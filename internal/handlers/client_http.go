package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rafuego/symphony-v3/internal/service"
	"github.com/Rafuego/symphony-v3/internal/utils"
)

type ClientHTTP struct {
	svc *service.ClientService
}

func NewClientHTTP(svc *service.ClientService) *ClientHTTP { return &ClientHTTP{svc: svc} }

type customPlanDTO struct {
	Price     *int    `json:"price"`
	MaxActive *int    `json:"maxActive"`
	Designers *string `json:"designers"`
}

// GET /api/clients
func (h *ClientHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := h.svc.List(r.Context())
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"clients": clients})
	}
}

// POST /api/clients
func (h *ClientHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Name            string         `json:"name"`
		Plan            string         `json:"plan"`
		Password        string         `json:"password"`
		PasswordEnabled bool           `json:"passwordEnabled"`
		CustomPlan      *customPlanDTO `json:"customPlan"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		input := service.ClientInput{
			Name:            in.Name,
			Plan:            in.Plan,
			Password:        in.Password,
			PasswordEnabled: in.PasswordEnabled,
		}
		if in.CustomPlan != nil {
			input.CustomPrice = in.CustomPlan.Price
			input.CustomMaxActive = in.CustomPlan.MaxActive
			input.CustomDesigners = in.CustomPlan.Designers
		}

		client, err := h.svc.Create(r.Context(), input)
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]any{"client": client})
	}
}

// GET /api/clients/{id} — client plus its requests sorted for display, and
// the effective plan numbers after overrides.
func (h *ClientHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, reqs, err := h.svc.GetWithRequests(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, err)
			return
		}
		price, maxActive, designers := h.svc.Entitlements(client)
		utils.JSON(w, http.StatusOK, map[string]any{
			"client":   client,
			"requests": reqs,
			"effective": map[string]any{
				"price":     price,
				"maxActive": maxActive,
				"designers": designers,
			},
		})
	}
}

// PATCH /api/clients/{id}
func (h *ClientHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name            *string        `json:"name"`
		Plan            *string        `json:"plan"`
		Logo            *string        `json:"logo"`
		Password        *string        `json:"password"`
		PasswordEnabled *bool          `json:"passwordEnabled"`
		CustomPlan      *customPlanDTO `json:"customPlan"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		input := service.ClientUpdateInput{
			Name:            in.Name,
			Plan:            in.Plan,
			Logo:            in.Logo,
			Password:        in.Password,
			PasswordEnabled: in.PasswordEnabled,
		}
		// customPlan present replaces all three overrides; an empty object
		// clears them.
		if in.CustomPlan != nil {
			input.CustomPrice = &in.CustomPlan.Price
			input.CustomMaxActive = &in.CustomPlan.MaxActive
			input.CustomDesigners = &in.CustomPlan.Designers
		}

		client, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"client": client})
	}
}

// DELETE /api/clients/{id}
func (h *ClientHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			serviceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
