package embedding

import (
	"context"
	"sync"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

var _ wordStore = &wordStoreMock{}

type wordStoreMock struct {
	ListMissingEmbeddingFunc func(ctx context.Context, afterID int64, limit int) ([]domain.Word, error)
	UpdateEmbeddingFunc      func(ctx context.Context, wordID int64, vec []float32) error

	calls struct {
		ListMissingEmbedding []struct {
			Ctx     context.Context
			AfterID int64
			Limit   int
		}
		UpdateEmbedding []struct {
			Ctx    context.Context
			WordID int64
			Vec    []float32
		}
	}
	lockListMissingEmbedding sync.RWMutex
	lockUpdateEmbedding      sync.RWMutex
}

func (mock *wordStoreMock) ListMissingEmbedding(ctx context.Context, afterID int64, limit int) ([]domain.Word, error) {
	if mock.ListMissingEmbeddingFunc == nil {
		panic("wordStoreMock.ListMissingEmbeddingFunc: method is nil but wordStore.ListMissingEmbedding was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		AfterID int64
		Limit   int
	}{Ctx: ctx, AfterID: afterID, Limit: limit}
	mock.lockListMissingEmbedding.Lock()
	mock.calls.ListMissingEmbedding = append(mock.calls.ListMissingEmbedding, callInfo)
	mock.lockListMissingEmbedding.Unlock()
	return mock.ListMissingEmbeddingFunc(ctx, afterID, limit)
}

func (mock *wordStoreMock) ListMissingEmbeddingCalls() []struct {
	Ctx     context.Context
	AfterID int64
	Limit   int
} {
	mock.lockListMissingEmbedding.RLock()
	calls := mock.calls.ListMissingEmbedding
	mock.lockListMissingEmbedding.RUnlock()
	return calls
}

func (mock *wordStoreMock) UpdateEmbedding(ctx context.Context, wordID int64, vec []float32) error {
	if mock.UpdateEmbeddingFunc == nil {
		panic("wordStoreMock.UpdateEmbeddingFunc: method is nil but wordStore.UpdateEmbedding was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		WordID int64
		Vec    []float32
	}{Ctx: ctx, WordID: wordID, Vec: vec}
	mock.lockUpdateEmbedding.Lock()
	mock.calls.UpdateEmbedding = append(mock.calls.UpdateEmbedding, callInfo)
	mock.lockUpdateEmbedding.Unlock()
	return mock.UpdateEmbeddingFunc(ctx, wordID, vec)
}

func (mock *wordStoreMock) UpdateEmbeddingCalls() []struct {
	Ctx    context.Context
	WordID int64
	Vec    []float32
} {
	mock.lockUpdateEmbedding.RLock()
	calls := mock.calls.UpdateEmbedding
	mock.lockUpdateEmbedding.RUnlock()
	return calls
}

var _ exampleStore = &exampleStoreMock{}

type exampleStoreMock struct {
	ListMissingEmbeddingFunc func(ctx context.Context, afterID int64, limit int) ([]domain.Example, error)
	UpdateEmbeddingFunc      func(ctx context.Context, exampleID int64, vec []float32) error

	calls struct {
		ListMissingEmbedding []struct {
			Ctx     context.Context
			AfterID int64
			Limit   int
		}
		UpdateEmbedding []struct {
			Ctx       context.Context
			ExampleID int64
			Vec       []float32
		}
	}
	lockListMissingEmbedding sync.RWMutex
	lockUpdateEmbedding      sync.RWMutex
}

func (mock *exampleStoreMock) ListMissingEmbedding(ctx context.Context, afterID int64, limit int) ([]domain.Example, error) {
	if mock.ListMissingEmbeddingFunc == nil {
		panic("exampleStoreMock.ListMissingEmbeddingFunc: method is nil but exampleStore.ListMissingEmbedding was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		AfterID int64
		Limit   int
	}{Ctx: ctx, AfterID: afterID, Limit: limit}
	mock.lockListMissingEmbedding.Lock()
	mock.calls.ListMissingEmbedding = append(mock.calls.ListMissingEmbedding, callInfo)
	mock.lockListMissingEmbedding.Unlock()
	return mock.ListMissingEmbeddingFunc(ctx, afterID, limit)
}

func (mock *exampleStoreMock) ListMissingEmbeddingCalls() []struct {
	Ctx     context.Context
	AfterID int64
	Limit   int
} {
	mock.lockListMissingEmbedding.RLock()
	calls := mock.calls.ListMissingEmbedding
	mock.lockListMissingEmbedding.RUnlock()
	return calls
}

func (mock *exampleStoreMock) UpdateEmbedding(ctx context.Context, exampleID int64, vec []float32) error {
	if mock.UpdateEmbeddingFunc == nil {
		panic("exampleStoreMock.UpdateEmbeddingFunc: method is nil but exampleStore.UpdateEmbedding was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ExampleID int64
		Vec       []float32
	}{Ctx: ctx, ExampleID: exampleID, Vec: vec}
	mock.lockUpdateEmbedding.Lock()
	mock.calls.UpdateEmbedding = append(mock.calls.UpdateEmbedding, callInfo)
	mock.lockUpdateEmbedding.Unlock()
	return mock.UpdateEmbeddingFunc(ctx, exampleID, vec)
}

func (mock *exampleStoreMock) UpdateEmbeddingCalls() []struct {
	Ctx       context.Context
	ExampleID int64
	Vec       []float32
} {
	mock.lockUpdateEmbedding.RLock()
	calls := mock.calls.UpdateEmbedding
	mock.lockUpdateEmbedding.RUnlock()
	return calls
}
