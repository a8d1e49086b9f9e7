package middleware

import (
	"net/http"
	"strings"

	"github.com/felipe25/tienda-backend/api/responses"
	"github.com/felipe25/tienda-backend/pkg/config"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
)

const adminUIDHeader = "X-Admin-UID"

// RequireAdmin gates catalog mutations on the configured UID allow-list.
// This is authorization over an upstream-verified identity, not a login.
func RequireAdmin(admin config.AdminConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := strings.TrimSpace(r.Header.Get(adminUIDHeader))
			if uid == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "se requiere un usuario administrador"))
				return
			}
			if !admin.Allows(uid) {
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFirebaseUID(ctx, uid)
					logg.Warn(ctx, "admin.denied")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "no tienes permisos para esta operación"))
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithFirebaseUID(ctx, uid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
