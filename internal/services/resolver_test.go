package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraev/tubewave/internal/facades"
	"github.com/mkraev/tubewave/internal/models"
	"github.com/mkraev/tubewave/internal/services"
)

func TestResolverService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := services.NewMockMediaProvider(ctrl)
	svc := services.NewResolverService(mockProvider, nil)

	t.Run("returns provider entries in order", func(t *testing.T) {
		want := []models.SearchResultItem{
			{VideoID: "a1", Title: "First", Thumbnail: "http://img/a1.jpg"},
			{VideoID: "b2", Title: "Second", Thumbnail: "http://img/b2.jpg"},
		}
		mockProvider.EXPECT().
			Search(gomock.Any(), "lofi beats", services.SearchLimit).
			Return(want, nil)

		got, err := svc.Search(context.Background(), "lofi beats")
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("caps results at the search limit", func(t *testing.T) {
		many := make([]models.SearchResultItem, 15)
		for i := range many {
			many[i] = models.SearchResultItem{
				VideoID:   fmt.Sprintf("id%d", i),
				Title:     fmt.Sprintf("title %d", i),
				Thumbnail: fmt.Sprintf("http://img/%d.jpg", i),
			}
		}
		mockProvider.EXPECT().
			Search(gomock.Any(), "lofi beats", services.SearchLimit).
			Return(many, nil)

		got, err := svc.Search(context.Background(), "lofi beats")
		require.NoError(t, err)
		require.Len(t, got, services.SearchLimit)
		assert.Equal(t, many[:services.SearchLimit], got)
		for _, item := range got {
			assert.NotEmpty(t, item.VideoID)
			assert.NotEmpty(t, item.Title)
			assert.NotEmpty(t, item.Thumbnail)
		}
	})

	t.Run("empty query never reaches the provider", func(t *testing.T) {
		for _, q := range []string{"", "   ", "\t\n"} {
			got, err := svc.Search(context.Background(), q)
			assert.ErrorIs(t, err, services.ErrEmptyQuery)
			assert.Nil(t, got)
		}
	})

	t.Run("provider failure collapses to unavailable", func(t *testing.T) {
		causes := []error{
			facades.NewProviderError(facades.CodeUnavailable, errors.New("connection refused")),
			facades.NewProviderError(facades.CodeBadPayload, errors.New("unexpected EOF")),
			errors.New("plain error"),
		}
		for _, cause := range causes {
			mockProvider.EXPECT().
				Search(gomock.Any(), "lofi beats", services.SearchLimit).
				Return(nil, cause)

			got, err := svc.Search(context.Background(), "lofi beats")
			assert.ErrorIs(t, err, services.ErrProviderUnavailable)
			assert.Nil(t, got)
		}
	})
}

func TestResolverService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := services.NewMockMediaProvider(ctrl)

	t.Run("returns resolved stream", func(t *testing.T) {
		svc := services.NewResolverService(mockProvider, nil)

		want := &models.ResolvedStream{
			VideoID:   "validId123",
			StreamURL: "https://cdn.example.com/audio/validId123.m4a?expire=123",
			Title:     "Some Track",
			Thumbnail: "http://img/validId123.jpg",
		}
		mockProvider.EXPECT().
			Resolve(gomock.Any(), "validId123").
			Return(want, nil)

		got, err := svc.Resolve(context.Background(), "validId123")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.StreamURL)
		assert.NotEmpty(t, got.Title)
		assert.NotEmpty(t, got.Thumbnail)
	})

	t.Run("any provider failure collapses to not found", func(t *testing.T) {
		svc := services.NewResolverService(mockProvider, nil)

		causes := []error{
			facades.NewProviderError(facades.CodeNotFound, errors.New("no video for id doesNotExist")),
			facades.NewProviderError(facades.CodeUnavailable, errors.New("timeout")),
			facades.NewProviderError(facades.CodeBadPayload, errors.New("invalid character")),
		}
		for _, cause := range causes {
			mockProvider.EXPECT().
				Resolve(gomock.Any(), "doesNotExist").
				Return(nil, cause)

			got, err := svc.Resolve(context.Background(), "doesNotExist")
			assert.ErrorIs(t, err, services.ErrStreamNotFound)
			assert.Nil(t, got)
		}
	})

	t.Run("blank id fails without a provider call", func(t *testing.T) {
		svc := services.NewResolverService(mockProvider, nil)

		got, err := svc.Resolve(context.Background(), "  ")
		assert.ErrorIs(t, err, services.ErrStreamNotFound)
		assert.Nil(t, got)
	})

	t.Run("publishes playback event when writer configured", func(t *testing.T) {
		mockWriter := services.NewMockKafkaWriter(ctrl)
		svc := services.NewResolverService(mockProvider, mockWriter)

		mockProvider.EXPECT().
			Resolve(gomock.Any(), "validId123").
			Return(&models.ResolvedStream{VideoID: "validId123", StreamURL: "https://cdn/a.m4a", Title: "T", Thumbnail: "http://i.jpg"}, nil)
		mockWriter.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.Resolve(context.Background(), "validId123")
		assert.NoError(t, err)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		mockWriter := services.NewMockKafkaWriter(ctrl)
		svc := services.NewResolverService(mockProvider, mockWriter)

		mockProvider.EXPECT().
			Resolve(gomock.Any(), "validId123").
			Return(&models.ResolvedStream{VideoID: "validId123", StreamURL: "https://cdn/a.m4a", Title: "T", Thumbnail: "http://i.jpg"}, nil)
		mockWriter.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			Return(errors.New("broker down"))

		got, err := svc.Resolve(context.Background(), "validId123")
		assert.NoError(t, err)
		assert.NotNil(t, got)
	})
}
