package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/venuelink/marketplace-backend/api/responses"
	pkgAuth "github.com/venuelink/marketplace-backend/pkg/auth"
	"github.com/venuelink/marketplace-backend/pkg/config"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
	"github.com/venuelink/marketplace-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the seller
// identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.SellerID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing seller id"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxSellerID, claims.SellerID)
			ctx = context.WithValue(ctx, ctxSellerType, string(claims.SellerType))
			if logg != nil {
				ctx = logg.WithSellerID(ctx, claims.SellerID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
