package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/ambucrackers/shop-backend/internal/domain/auth"
)

type identityKey struct{}

// IdentityFrom returns the caller identity resolved for the request, or nil
// for an anonymous caller.
func IdentityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey{}).(*auth.Identity)
	return id
}

// withIdentity resolves an optional bearer credential into the request
// context. An invalid or absent token leaves the request anonymous; the
// per-route guards decide whether that is acceptable.
func (h *Handler) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(hdr, "Bearer ")
		if !ok || token == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := h.verifier.Resolve(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFrom(r.Context())
		if id == nil {
			respondError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		if !id.Admin {
			respondError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
