package middleware

import (
	"context"
	"net/http"
	"strings"

	"movie-theater/internal/data/entity"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionFinder looks up a live session by its token.
type SessionFinder interface {
	FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error)
}

// AuthSession requires a valid Bearer access token whose session is still
// active. The user id, roles and session token are put in the request context.
func AuthSession(secret string, sessions SessionFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, status, message := authenticate(r, secret, sessions, logger)
			if status != http.StatusOK {
				utils.ResponseJSON(w, status, false, message, nil, nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth behaves like AuthSession when an Authorization header is sent
// and lets anonymous requests through untouched.
func OptionalAuth(secret string, sessions SessionFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx, status, message := authenticate(r, secret, sessions, logger)
			if status != http.StatusOK {
				utils.ResponseJSON(w, status, false, message, nil, nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, secret string, sessions SessionFinder, logger *zap.Logger) (context.Context, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, http.StatusUnauthorized, "Missing authorization token"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, http.StatusUnauthorized, "Invalid token format. Use: Bearer <token>"
	}

	claims, err := utils.ParseAccessToken(secret, parts[1])
	if err != nil {
		logger.Warn("Rejected access token", zap.Error(err))
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}
	sessionToken, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	session, err := sessions.FindValidSession(r.Context(), sessionToken)
	if err != nil {
		logger.Error("Failed to validate session",
			zap.String("session", sessionToken.String()),
			zap.Error(err))
		return nil, http.StatusInternalServerError, "Internal server error"
	}

	if session == nil || session.UserID != userID {
		logger.Warn("Invalid or expired session", zap.String("session", sessionToken.String()))
		return nil, http.StatusUnauthorized, "Invalid or expired session"
	}

	ctx := utils.SetUserContext(r.Context(), userID, claims.Roles)
	ctx = utils.SetTokenContext(ctx, sessionToken.String())
	return ctx, http.StatusOK, ""
}

// RequireRole lets the request through when the caller holds any of roles.
// It must run after AuthSession.
func RequireRole(logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !utils.HasAnyRole(r.Context(), roles...) {
				logger.Warn("Role check: access denied",
					zap.String("user_id", userID.String()),
					zap.Strings("required", roles),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
