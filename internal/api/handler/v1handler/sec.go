package v1handler

import (
	"context"
	"crypto/rsa"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"discovery/internal/config"
	"discovery/pkg/domain"
	"discovery/pkg/serrors"
)

// CtxKey is a string-based type used for storing values in request contexts.
type CtxKey string

// UserIDKey is the context key under which the authenticated user ID is stored.
const UserIDKey CtxKey = "UserID"

// SecHandlerOptions configure bearer token verification.
type SecHandlerOptions struct {
	// PublicKey is the PEM-encoded RSA public key tokens are verified with.
	PublicKey string
}

// NewSecHandlerOptions constructs SecHandlerOptions from the application config.
func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler verifies RS256 bearer tokens and resolves the authenticated
// user ID.
type SecHandler struct {
	publicKey *rsa.PublicKey
}

// NewSecHandler parses the configured public key and returns a SecHandler.
func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not parse RSA public key")
	}

	return &SecHandler{publicKey: key}, nil
}

// HandleBearerAuth validates the token and returns a context carrying the
// authenticated user ID. Only RS256 signatures are accepted and the token
// subject must be a UUID.
func (s *SecHandler) HandleBearerAuth(ctx context.Context, token string) (context.Context, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !parsed.Valid {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	return context.WithValue(ctx, UserIDKey, domain.UserID(uid)), nil
}

// Require wraps a handler with bearer authentication. Requests without a
// valid token are rejected with 401.
func (s *SecHandler) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(ctx, w, "missing bearer token")

			return
		}
		ctx, err := s.HandleBearerAuth(ctx, token)
		if err != nil {
			writeUnauthorized(ctx, w, "invalid token")

			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext returns the authenticated user ID, or the zero value
// when the request was not authenticated.
func GetUserIDFromContext(ctx context.Context) domain.UserID {
	if uid, ok := ctx.Value(UserIDKey).(domain.UserID); ok {
		return uid
	}

	return domain.UserID{}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}

	return auth[len(prefix):], true
}

func writeUnauthorized(ctx context.Context, w http.ResponseWriter, msg string) {
	writeJSON(ctx, w, http.StatusUnauthorized, ErrorResponse{
		Code:    serrors.ErrUnauthorized.Error(),
		Message: msg,
	})
}
