package facades

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mkraev/tubewave/internal/logger"
	"github.com/mkraev/tubewave/internal/models"
)

// Provider failure codes. They are kept internal to the resolution layer:
// callers above the resolver service only ever see the two coarse error
// kinds, the code exists for logging.
const (
	CodeNotFound    = "not-found"
	CodeBadPayload  = "bad-payload"
	CodeUnavailable = "unavailable"
)

// ProviderError describes a failed call to the media provider.
type ProviderError struct {
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("media provider: code=%s, error=%v", e.Code, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(code string, err error) *ProviderError {
	return &ProviderError{Code: code, Err: err}
}

// searchResponse mirrors the extractor's search payload.
type searchResponse struct {
	Results []searchEntry `json:"results"`
}

type searchEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// resolveResponse mirrors the extractor's resolve payload.
type resolveResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
}

// MediaProviderFacade talks to the extractor sidecar over HTTP. The
// provider is best-effort: each call is one shot, bounded by a timeout,
// and never retried.
type MediaProviderFacade struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewMediaProviderFacade creates a facade for the extractor at baseURL.
func NewMediaProviderFacade(baseURL string, timeout time.Duration) *MediaProviderFacade {
	return &MediaProviderFacade{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Search runs a keyword search and returns up to limit ranked entries.
func (f *MediaProviderFacade) Search(ctx context.Context, query string, limit int) ([]models.SearchResultItem, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/api/v1/search?q=%s&limit=%d", f.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, NewProviderError(CodeUnavailable, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("provider search request failed", "query", query, "error", err)
		return nil, NewProviderError(CodeUnavailable, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Errorw("provider search returned non-OK status", "query", query, "status", resp.StatusCode)
		return nil, NewProviderError(CodeUnavailable, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Log.Errorw("provider search payload malformed", "query", query, "error", err)
		return nil, NewProviderError(CodeBadPayload, fmt.Errorf("failed to decode response: %w", err))
	}

	results := make([]models.SearchResultItem, 0, len(body.Results))
	for _, e := range body.Results {
		results = append(results, models.SearchResultItem{
			VideoID:   e.ID,
			Title:     e.Title,
			Thumbnail: e.Thumbnail,
		})
	}

	return results, nil
}

// Resolve fetches metadata and the best audio-only stream URL for a single
// video. The identifier is always treated as exactly one item: the facade
// never asks the provider to expand playlists.
func (f *MediaProviderFacade) Resolve(ctx context.Context, videoID string) (*models.ResolvedStream, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/api/v1/resolve/%s?format=bestaudio", f.baseURL, url.PathEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, NewProviderError(CodeUnavailable, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("provider resolve request failed", "video_id", videoID, "error", err)
		return nil, NewProviderError(CodeUnavailable, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, NewProviderError(CodeNotFound, fmt.Errorf("no video for id %s", videoID))
	default:
		logger.Log.Errorw("provider resolve returned non-OK status", "video_id", videoID, "status", resp.StatusCode)
		return nil, NewProviderError(CodeUnavailable, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var body resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Log.Errorw("provider resolve payload malformed", "video_id", videoID, "error", err)
		return nil, NewProviderError(CodeBadPayload, fmt.Errorf("failed to decode response: %w", err))
	}

	if body.URL == "" {
		return nil, NewProviderError(CodeBadPayload, fmt.Errorf("empty stream url for id %s", videoID))
	}

	return &models.ResolvedStream{
		VideoID:   body.ID,
		StreamURL: body.URL,
		Title:     body.Title,
		Thumbnail: body.Thumbnail,
	}, nil
}
