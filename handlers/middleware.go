package handlers

import (
	"context"
	"net/http"

	"github.com/SCN0mad/scuba-app-backend/authorization"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
)

type KeySubject struct{}
type KeyClaims struct{}

// AuthMiddleware resolves the bearer credential to a subject id before any
// handler or storage code runs. The identity provider issues the tokens;
// this only verifies them.
type AuthMiddleware struct {
	verifier *authorization.Verifier
}

func NewAuthMiddleware(verifier *authorization.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (middleware *AuthMiddleware) VerifyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		bearer := h.Header.Get("Authorization")
		if bearer == "" {
			http.Error(rw, errs.NoTokenError, http.StatusUnauthorized)
			return
		}

		claims, err := middleware.verifier.VerifyBearer(bearer)
		if err != nil {
			http.Error(rw, errs.InvalidTokenError, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(h.Context(), KeySubject{}, claims["sub"])
		ctx = context.WithValue(ctx, KeyClaims{}, claims)
		next.ServeHTTP(rw, h.WithContext(ctx))
	})
}

func GetSubjectID(h *http.Request) string {
	subjectID, _ := h.Context().Value(KeySubject{}).(string)
	return subjectID
}

func GetClaims(h *http.Request) map[string]string {
	claims, _ := h.Context().Value(KeyClaims{}).(map[string]string)
	return claims
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(rw, h)
	})
}
