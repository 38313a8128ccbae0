package middleware

import (
	"net/http"

	"github.com/Rafuego/symphony-v3/internal/utils"

	"github.com/go-chi/chi/v5"
)

// RequireOwnClientOrRoles allows if the {id} path param matches the session's
// client id OR the session holds one of the given roles. Portal sessions can
// only read their own client; admins can read any.
func RequireOwnClientOrRoles(roles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxCID, _ := utils.GetString(r.Context(), CtxClientID)
			ctxRole, _ := utils.GetString(r.Context(), CtxRole)
			pathID := chi.URLParam(r, "id")

			if _, ok := roleSet[ctxRole]; ok {
				next.ServeHTTP(w, r)
				return
			}
			// otherwise only the client's own record
			if ctxCID != "" && pathID == ctxCID {
				next.ServeHTTP(w, r)
				return
			}
			utils.Error(w, http.StatusForbidden, "forbidden")
		})
	}
}
