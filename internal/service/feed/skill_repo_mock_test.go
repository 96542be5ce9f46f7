package feed

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

var _ skillRepo = &skillRepoMock{}

type skillRepoMock struct {
	ListByUserAndWordIDsFunc func(ctx context.Context, userID uuid.UUID, wordIDs []int64) ([]domain.UserWordSkill, error)

	calls struct {
		ListByUserAndWordIDs []struct {
			Ctx     context.Context
			UserID  uuid.UUID
			WordIDs []int64
		}
	}
	lockListByUserAndWordIDs sync.RWMutex
}

func (mock *skillRepoMock) ListByUserAndWordIDs(ctx context.Context, userID uuid.UUID, wordIDs []int64) ([]domain.UserWordSkill, error) {
	if mock.ListByUserAndWordIDsFunc == nil {
		panic("skillRepoMock.ListByUserAndWordIDsFunc: method is nil but skillRepo.ListByUserAndWordIDs was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		UserID  uuid.UUID
		WordIDs []int64
	}{Ctx: ctx, UserID: userID, WordIDs: wordIDs}
	mock.lockListByUserAndWordIDs.Lock()
	mock.calls.ListByUserAndWordIDs = append(mock.calls.ListByUserAndWordIDs, callInfo)
	mock.lockListByUserAndWordIDs.Unlock()
	return mock.ListByUserAndWordIDsFunc(ctx, userID, wordIDs)
}

func (mock *skillRepoMock) ListByUserAndWordIDsCalls() []struct {
	Ctx     context.Context
	UserID  uuid.UUID
	WordIDs []int64
} {
	mock.lockListByUserAndWordIDs.RLock()
	calls := mock.calls.ListByUserAndWordIDs
	mock.lockListByUserAndWordIDs.RUnlock()
	return calls
}
