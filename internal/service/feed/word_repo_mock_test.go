package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

var _ wordRepo = &wordRepoMock{}

type wordRepoMock struct {
	ListForScoringFunc func(ctx context.Context, userID uuid.UUID, filter domain.FeedFilter) ([]domain.WordStats, error)
	ScoreInDBFunc      func(ctx context.Context, userID uuid.UUID, filter domain.FeedFilter, params domain.ScoreParams, now time.Time) ([]domain.WordStats, error)
	GetByLemmaIDsFunc  func(ctx context.Context, userID uuid.UUID, lemmaIDs []int64) ([]domain.OwnedWord, error)

	calls struct {
		ListForScoring []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Filter domain.FeedFilter
		}
		ScoreInDB []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Filter domain.FeedFilter
			Params domain.ScoreParams
			Now    time.Time
		}
		GetByLemmaIDs []struct {
			Ctx      context.Context
			UserID   uuid.UUID
			LemmaIDs []int64
		}
	}
	lockListForScoring sync.RWMutex
	lockScoreInDB      sync.RWMutex
	lockGetByLemmaIDs  sync.RWMutex
}

func (mock *wordRepoMock) ListForScoring(ctx context.Context, userID uuid.UUID, filter domain.FeedFilter) ([]domain.WordStats, error) {
	if mock.ListForScoringFunc == nil {
		panic("wordRepoMock.ListForScoringFunc: method is nil but wordRepo.ListForScoring was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Filter domain.FeedFilter
	}{Ctx: ctx, UserID: userID, Filter: filter}
	mock.lockListForScoring.Lock()
	mock.calls.ListForScoring = append(mock.calls.ListForScoring, callInfo)
	mock.lockListForScoring.Unlock()
	return mock.ListForScoringFunc(ctx, userID, filter)
}

func (mock *wordRepoMock) ListForScoringCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Filter domain.FeedFilter
} {
	mock.lockListForScoring.RLock()
	calls := mock.calls.ListForScoring
	mock.lockListForScoring.RUnlock()
	return calls
}

func (mock *wordRepoMock) ScoreInDB(ctx context.Context, userID uuid.UUID, filter domain.FeedFilter, params domain.ScoreParams, now time.Time) ([]domain.WordStats, error) {
	if mock.ScoreInDBFunc == nil {
		panic("wordRepoMock.ScoreInDBFunc: method is nil but wordRepo.ScoreInDB was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Filter domain.FeedFilter
		Params domain.ScoreParams
		Now    time.Time
	}{Ctx: ctx, UserID: userID, Filter: filter, Params: params, Now: now}
	mock.lockScoreInDB.Lock()
	mock.calls.ScoreInDB = append(mock.calls.ScoreInDB, callInfo)
	mock.lockScoreInDB.Unlock()
	return mock.ScoreInDBFunc(ctx, userID, filter, params, now)
}

func (mock *wordRepoMock) ScoreInDBCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Filter domain.FeedFilter
	Params domain.ScoreParams
	Now    time.Time
} {
	mock.lockScoreInDB.RLock()
	calls := mock.calls.ScoreInDB
	mock.lockScoreInDB.RUnlock()
	return calls
}

func (mock *wordRepoMock) GetByLemmaIDs(ctx context.Context, userID uuid.UUID, lemmaIDs []int64) ([]domain.OwnedWord, error) {
	if mock.GetByLemmaIDsFunc == nil {
		panic("wordRepoMock.GetByLemmaIDsFunc: method is nil but wordRepo.GetByLemmaIDs was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		UserID   uuid.UUID
		LemmaIDs []int64
	}{Ctx: ctx, UserID: userID, LemmaIDs: lemmaIDs}
	mock.lockGetByLemmaIDs.Lock()
	mock.calls.GetByLemmaIDs = append(mock.calls.GetByLemmaIDs, callInfo)
	mock.lockGetByLemmaIDs.Unlock()
	return mock.GetByLemmaIDsFunc(ctx, userID, lemmaIDs)
}

func (mock *wordRepoMock) GetByLemmaIDsCalls() []struct {
	Ctx      context.Context
	UserID   uuid.UUID
	LemmaIDs []int64
} {
	mock.lockGetByLemmaIDs.RLock()
	calls := mock.calls.GetByLemmaIDs
	mock.lockGetByLemmaIDs.RUnlock()
	return calls
}
