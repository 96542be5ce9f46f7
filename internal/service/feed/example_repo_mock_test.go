package feed

import (
	"context"
	"sync"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

var _ exampleRepo = &exampleRepoMock{}

type exampleRepoMock struct {
	ListByWordIDFunc func(ctx context.Context, wordID int64, filter domain.FeedFilter, limit int) ([]domain.Example, error)

	calls struct {
		ListByWordID []struct {
			Ctx    context.Context
			WordID int64
			Filter domain.FeedFilter
			Limit  int
		}
	}
	lockListByWordID sync.RWMutex
}

func (mock *exampleRepoMock) ListByWordID(ctx context.Context, wordID int64, filter domain.FeedFilter, limit int) ([]domain.Example, error) {
	if mock.ListByWordIDFunc == nil {
		panic("exampleRepoMock.ListByWordIDFunc: method is nil but exampleRepo.ListByWordID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		WordID int64
		Filter domain.FeedFilter
		Limit  int
	}{Ctx: ctx, WordID: wordID, Filter: filter, Limit: limit}
	mock.lockListByWordID.Lock()
	mock.calls.ListByWordID = append(mock.calls.ListByWordID, callInfo)
	mock.lockListByWordID.Unlock()
	return mock.ListByWordIDFunc(ctx, wordID, filter, limit)
}

func (mock *exampleRepoMock) ListByWordIDCalls() []struct {
	Ctx    context.Context
	WordID int64
	Filter domain.FeedFilter
	Limit  int
} {
	mock.lockListByWordID.RLock()
	calls := mock.calls.ListByWordID
	mock.lockListByWordID.RUnlock()
	return calls
}
