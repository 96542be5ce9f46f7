package feed

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

var (
	_ tokenizer   = &tokenizerMock{}
	_ urlResolver = &urlResolverMock{}
)

type tokenizerMock struct {
	TokenizeFunc func(text string) []domain.Line

	calls struct {
		Tokenize []struct {
			Text string
		}
	}
	lockTokenize sync.RWMutex
}

func (mock *tokenizerMock) Tokenize(text string) []domain.Line {
	if mock.TokenizeFunc == nil {
		panic("tokenizerMock.TokenizeFunc: method is nil but tokenizer.Tokenize was just called")
	}
	callInfo := struct{ Text string }{Text: text}
	mock.lockTokenize.Lock()
	mock.calls.Tokenize = append(mock.calls.Tokenize, callInfo)
	mock.lockTokenize.Unlock()
	return mock.TokenizeFunc(text)
}

func (mock *tokenizerMock) TokenizeCalls() []struct{ Text string } {
	mock.lockTokenize.RLock()
	calls := mock.calls.Tokenize
	mock.lockTokenize.RUnlock()
	return calls
}

type urlResolverMock struct {
	ResolveFunc func(ctx context.Context, objectKey string, ttl time.Duration) (string, error)

	calls struct {
		Resolve []struct {
			Ctx       context.Context
			ObjectKey string
			TTL       time.Duration
		}
	}
	lockResolve sync.RWMutex
}

func (mock *urlResolverMock) Resolve(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	if mock.ResolveFunc == nil {
		panic("urlResolverMock.ResolveFunc: method is nil but urlResolver.Resolve was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ObjectKey string
		TTL       time.Duration
	}{Ctx: ctx, ObjectKey: objectKey, TTL: ttl}
	mock.lockResolve.Lock()
	mock.calls.Resolve = append(mock.calls.Resolve, callInfo)
	mock.lockResolve.Unlock()
	return mock.ResolveFunc(ctx, objectKey, ttl)
}

func (mock *urlResolverMock) ResolveCalls() []struct {
	Ctx       context.Context
	ObjectKey string
	TTL       time.Duration
} {
	mock.lockResolve.RLock()
	calls := mock.calls.Resolve
	mock.lockResolve.RUnlock()
	return calls
}
