package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/mkraev/tubewave/internal/facades"
	"github.com/mkraev/tubewave/internal/logger"
	"github.com/mkraev/tubewave/internal/models"
)

// SearchLimit caps how many ranked entries a search returns.
const SearchLimit = 10

var (
	// ErrEmptyQuery is returned for empty or whitespace-only queries,
	// before any provider call is made.
	ErrEmptyQuery = errors.New("search query must not be empty")

	// ErrProviderUnavailable is the uniform failure for search. The
	// underlying cause is logged but never crosses this boundary.
	ErrProviderUnavailable = errors.New("media provider unavailable")

	// ErrStreamNotFound is the uniform failure for resolve. Callers
	// cannot distinguish a missing video from a transient provider error.
	ErrStreamNotFound = errors.New("stream not found")
)

// MediaProvider is the outbound capability the resolver delegates to.
type MediaProvider interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchResultItem, error)
	Resolve(ctx context.Context, videoID string) (*models.ResolvedStream, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ResolverService turns queries and video identifiers into playable
// results. It holds no state across requests: every call is independent,
// nothing is cached, and concurrent calls share nothing mutable.
type ResolverService struct {
	provider    MediaProvider
	kafkaWriter KafkaWriter
}

// NewResolverService creates a new ResolverService.
func NewResolverService(provider MediaProvider, kafkaWriter KafkaWriter) *ResolverService {
	return &ResolverService{
		provider:    provider,
		kafkaWriter: kafkaWriter,
	}
}

// Search runs one provider call and returns the top ranked entries
// verbatim, at most SearchLimit of them, in provider order.
func (svc *ResolverService) Search(ctx context.Context, query string) ([]models.SearchResultItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	results, err := svc.provider.Search(ctx, query, SearchLimit)
	if err != nil {
		logger.Log.Errorw("provider search failed",
			"query", query,
			"cause", providerCode(err),
			"err", err,
		)
		return nil, ErrProviderUnavailable
	}

	if len(results) > SearchLimit {
		results = results[:SearchLimit]
	}

	return results, nil
}

// Resolve turns one opaque video identifier into a playable stream. Any
// provider failure collapses to ErrStreamNotFound; the structured cause
// stays in the logs.
func (svc *ResolverService) Resolve(ctx context.Context, videoID string) (*models.ResolvedStream, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, ErrStreamNotFound
	}

	stream, err := svc.provider.Resolve(ctx, videoID)
	if err != nil {
		logger.Log.Errorw("provider resolve failed",
			"video_id", videoID,
			"cause", providerCode(err),
			"err", err,
		)
		return nil, ErrStreamNotFound
	}

	svc.publishPlayback(ctx, models.PlaybackEvent{
		EventID:    uuid.New().String(),
		VideoID:    stream.VideoID,
		Title:      stream.Title,
		ResolvedAt: time.Now().UTC(),
	})

	return stream, nil
}

// publishPlayback sends a playback event to Kafka. Publishing is
// best-effort: a missing writer or a broker error never fails the request.
func (svc *ResolverService) publishPlayback(ctx context.Context, event models.PlaybackEvent) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event_id", event.EventID)
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal playback event", "event_id", event.EventID, "err", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.VideoID),
		Value: payload,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish playback event", "event_id", event.EventID, "err", err)
	}
}

// providerCode extracts the facade's failure code for logging.
func providerCode(err error) string {
	var pErr *facades.ProviderError
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	return "unknown"
}
