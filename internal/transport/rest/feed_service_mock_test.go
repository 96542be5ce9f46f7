package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
	"github.com/heartmarshall/jpkr-backend/internal/service/feed"
)

var _ feedService = &feedServiceMock{}

type feedServiceMock struct {
	GetFeedFunc func(ctx context.Context, input feed.FeedInput) ([]domain.FeedItem, error)

	calls struct {
		GetFeed []struct {
			Ctx   context.Context
			Input feed.FeedInput
		}
	}
	lockGetFeed sync.RWMutex
}

func (mock *feedServiceMock) GetFeed(ctx context.Context, input feed.FeedInput) ([]domain.FeedItem, error) {
	if mock.GetFeedFunc == nil {
		panic("feedServiceMock.GetFeedFunc: method is nil but feedService.GetFeed was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input feed.FeedInput
	}{Ctx: ctx, Input: input}
	mock.lockGetFeed.Lock()
	mock.calls.GetFeed = append(mock.calls.GetFeed, callInfo)
	mock.lockGetFeed.Unlock()
	return mock.GetFeedFunc(ctx, input)
}

func (mock *feedServiceMock) GetFeedCalls() []struct {
	Ctx   context.Context
	Input feed.FeedInput
} {
	mock.lockGetFeed.RLock()
	calls := mock.calls.GetFeed
	mock.lockGetFeed.RUnlock()
	return calls
}
