package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkraev/tubewave/internal/logger"
	"github.com/mkraev/tubewave/internal/models"
	"github.com/mkraev/tubewave/internal/services"
)

// Searcher defines the interface that the search service must implement.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResultItem, error)
}

// SearchResponse represents a successful search response
// swagger:model SearchResponse
type SearchResponse struct {
	// Ranked search results, at most 10
	Results []models.SearchResultItem `json:"results"`
}

// SearchErrorResponse represents an error response for search
// swagger:model SearchErrorResponse
type SearchErrorResponse struct {
	// Error message
	// default: Search is temporarily unavailable
	Error string `json:"error"`
}

// NewSearchHandler returns an HTTP handler for keyword search.
// @Summary Search videos
// @Description Searches the media provider by keyword and returns up to 10 ranked results
// @Tags media
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} handlers.SearchResponse "Ranked results"
// @Failure 400 {object} handlers.SearchErrorResponse "Empty query"
// @Failure 502 {object} handlers.SearchErrorResponse "Provider unavailable"
// @Router /search [get]
// @Security BearerAuth
func NewSearchHandler(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")

		results, err := svc.Search(r.Context(), query)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyQuery):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(SearchErrorResponse{
					Error: "Search query must not be empty",
				})
			case errors.Is(err, services.ErrProviderUnavailable):
				w.WriteHeader(http.StatusBadGateway)
				json.NewEncoder(w).Encode(SearchErrorResponse{
					Error: "Search is temporarily unavailable",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(SearchErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(SearchResponse{
			Results: results,
		})
	}
}
