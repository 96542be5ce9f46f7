package embedding

import (
	"context"
	"sync"
)

var _ embedder = &embedderMock{}

type embedderMock struct {
	EmbedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)
	DimensionsFunc func() int

	calls struct {
		EmbedBatch []struct {
			Ctx   context.Context
			Texts []string
		}
	}
	lockEmbedBatch sync.RWMutex
}

func (mock *embedderMock) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if mock.EmbedBatchFunc == nil {
		panic("embedderMock.EmbedBatchFunc: method is nil but embedder.EmbedBatch was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Texts []string
	}{Ctx: ctx, Texts: texts}
	mock.lockEmbedBatch.Lock()
	mock.calls.EmbedBatch = append(mock.calls.EmbedBatch, callInfo)
	mock.lockEmbedBatch.Unlock()
	return mock.EmbedBatchFunc(ctx, texts)
}

func (mock *embedderMock) EmbedBatchCalls() []struct {
	Ctx   context.Context
	Texts []string
} {
	mock.lockEmbedBatch.RLock()
	calls := mock.calls.EmbedBatch
	mock.lockEmbedBatch.RUnlock()
	return calls
}

func (mock *embedderMock) Dimensions() int {
	if mock.DimensionsFunc == nil {
		panic("embedderMock.DimensionsFunc: method is nil but embedder.Dimensions was just called")
	}
	return mock.DimensionsFunc()
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Ctx context.Context
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}
