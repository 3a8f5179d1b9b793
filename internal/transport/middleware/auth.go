package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/slide-relay/internal/auth"
	"github.com/heartmarshall/slide-relay/pkg/ctxutil"
)

// APIKeyHeader carries the edge agent API key.
const APIKeyHeader = "X-Api-Key"

type tokenValidator interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

type keyVerifier interface {
	Verify(key string) (string, error)
}

// RequireOperator rejects requests without a valid operator bearer token
// and stores the operator identity in the context.
func RequireOperator(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="slide-relay"`)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			id, err := validator.ValidateAccessToken(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="slide-relay", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			recordCaller(r.Context(), id.Subject, "")
			ctx := ctxutil.WithOperator(r.Context(), id.Subject, id.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects operators without the admin role.
// It must run after RequireOperator.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ctxutil.SubjectFromCtx(r.Context()); !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if ctxutil.RoleFromCtx(r.Context()) != auth.RoleAdmin {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireEdgeKey authenticates an edge agent by API key and stores its
// origin in the context.
func RequireEdgeKey(verifier keyVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				writeError(w, http.StatusUnauthorized, "missing api key")
				return
			}
			origin, err := verifier.Verify(key)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
			recordCaller(r.Context(), "", origin)
			next.ServeHTTP(w, r.WithContext(ctxutil.WithOrigin(r.Context(), origin)))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
