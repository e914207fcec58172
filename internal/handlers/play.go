package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkraev/tubewave/internal/logger"
	"github.com/mkraev/tubewave/internal/models"
	"github.com/mkraev/tubewave/internal/services"
)

// Resolver defines the interface that the resolution service must implement.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) (*models.ResolvedStream, error)
}

// StreamResponse represents a resolved playable stream
// swagger:model StreamResponse
type StreamResponse struct {
	// Resolved stream descriptor
	Stream models.ResolvedStream `json:"stream"`
}

// StreamErrorResponse represents an error response for play and share
// swagger:model StreamErrorResponse
type StreamErrorResponse struct {
	// Error message
	// default: Stream not found
	Error string `json:"error"`
}

// NewPlayHandler returns an HTTP handler that resolves a video into a
// playable audio stream for the signed-in user.
// @Summary Play a video's audio
// @Description Resolves the best audio-only stream URL plus metadata for one video
// @Tags media
// @Produce json
// @Param videoID path string true "Opaque video identifier"
// @Success 200 {object} handlers.StreamResponse "Resolved stream"
// @Failure 404 {object} handlers.StreamErrorResponse "Stream not found"
// @Router /play/{videoID} [get]
// @Security BearerAuth
func NewPlayHandler(svc Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := chi.URLParam(r, "videoID")

		stream, err := svc.Resolve(r.Context(), videoID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrStreamNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(StreamErrorResponse{
					Error: "Stream not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(StreamErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(StreamResponse{
			Stream: *stream,
		})
	}
}
