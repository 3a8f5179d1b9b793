package readmodel

import (
	"sync"

	"github.com/heartmarshall/slide-relay/internal/adapter/objectstore"
)

var _ urlSigner = &urlSignerMock{}

type urlSignerMock struct {
	SignGetFunc func(bucket string, key string) (objectstore.SignedURL, error)

	calls struct {
		SignGet []struct {
			Bucket string
			Key    string
		}
	}
	lockSignGet sync.RWMutex
}

func (mock *urlSignerMock) SignGet(bucket string, key string) (objectstore.SignedURL, error) {
	if mock.SignGetFunc == nil {
		panic("urlSignerMock.SignGetFunc: method is nil but urlSigner.SignGet was just called")
	}
	callInfo := struct {
		Bucket string
		Key    string
	}{Bucket: bucket, Key: key}
	mock.lockSignGet.Lock()
	mock.calls.SignGet = append(mock.calls.SignGet, callInfo)
	mock.lockSignGet.Unlock()
	return mock.SignGetFunc(bucket, key)
}

func (mock *urlSignerMock) SignGetCalls() []struct {
	Bucket string
	Key    string
} {
	mock.lockSignGet.RLock()
	calls := mock.calls.SignGet
	mock.lockSignGet.RUnlock()
	return calls
}
