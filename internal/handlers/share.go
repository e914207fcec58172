package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkraev/tubewave/internal/logger"
	"github.com/mkraev/tubewave/internal/services"
)

// NewShareHandler returns the unauthenticated share surface. It accepts the
// same opaque identifier and produces the same stream contract as play;
// only the access control differs, and that lives in the router.
// @Summary Resolve a shared video's audio
// @Description Resolves a shared video identifier into a playable audio stream, no session required
// @Tags media
// @Produce json
// @Param videoID path string true "Opaque video identifier"
// @Success 200 {object} handlers.StreamResponse "Resolved stream"
// @Failure 404 {object} handlers.StreamErrorResponse "Stream not found"
// @Router /share/{videoID} [get]
func NewShareHandler(svc Resolver) http.HandlerFunc {
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
