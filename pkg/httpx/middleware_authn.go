package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/glucocare/carelink/pkg/slogx"
)

const (
	MsgMissingAuthorization = "Missing authorization header"
	MsgUnauthorized         = "Unauthorized"
)

// IdentityResolver turns a bearer credential into a stable caller id.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, credential string) (string, error)
}

// BearerToken extracts the credential from the Authorization header. The
// second result is false when the header is absent.
func BearerToken(r *http.Request) (string, bool) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if authz == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		// Present but not a bearer header: treat it as a bad credential.
		return "", true
	}
	return strings.TrimSpace(token), true
}

// AuthnMiddleware resolves the bearer credential and stores the caller id in
// the request context. Requests without a valid credential get a 401.
func AuthnMiddleware(resolver IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token, ok := BearerToken(r)
			if !ok {
				WriteUnauthorized(w, MsgMissingAuthorization)
				return
			}

			subject, err := resolver.ResolveIdentity(ctx, token)
			if err != nil || subject == "" {
				log.Warn("bearer credential rejected", "err", err)
				WriteUnauthorized(w, MsgUnauthorized)
				return
			}

			ctx = WithSubject(ctx, subject)
			ctx = slogx.With(ctx, "subject", subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WriteUnauthorized writes a 401 with an RFC 6750 challenge header.
func WriteUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteError(w, http.StatusUnauthorized, msg, "")
}
