package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mkraev/tubewave/internal/jwt"
	"github.com/mkraev/tubewave/internal/logger"
)

// AdminTokener defines the token operations the admin handler needs.
type AdminTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// UserCounter reports registered-user statistics.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// AdminStatsResponse represents the admin statistics payload
// swagger:model AdminStatsResponse
type AdminStatsResponse struct {
	// Total registered users
	// default: 42
	Users int64 `json:"users"`
}

// AdminErrorResponse represents an error response for the admin surface
// swagger:model AdminErrorResponse
type AdminErrorResponse struct {
	// Error message
	// default: Forbidden
	Error string `json:"error"`
}

// NewAdminStatsHandler returns an HTTP handler for the admin panel. Access
// is a capability check against the credential store's role flag, carried
// in the session token; never a literal credential comparison.
// @Summary Admin statistics
// @Description Returns registered-user statistics; requires an admin session
// @Tags admin
// @Produce json
// @Success 200 {object} handlers.AdminStatsResponse "Statistics"
// @Failure 401 {object} handlers.AdminErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.AdminErrorResponse "Not an admin"
// @Router /admin/stats [get]
// @Security BearerAuth
func NewAdminStatsHandler(counter UserCounter, tokens AdminTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := tokens.GetTokenFromRequest(r.Context(), r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(AdminErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		claims, err := tokens.GetClaims(r.Context(), tokenString)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(AdminErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		if !claims.IsAdmin {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(AdminErrorResponse{
				Error: "Forbidden",
			})
			return
		}

		users, err := counter.CountUsers(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to count users", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(AdminErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(AdminStatsResponse{
			Users: users,
		})
	}
}
