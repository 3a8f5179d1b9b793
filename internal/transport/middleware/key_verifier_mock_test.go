package middleware

import (
	"sync"
)

var _ keyVerifier = &keyVerifierMock{}

type keyVerifierMock struct {
	VerifyFunc func(key string) (string, error)

	calls struct {
		Verify []struct {
			Key string
		}
	}
	lockVerify sync.RWMutex
}

func (mock *keyVerifierMock) Verify(key string) (string, error) {
	if mock.VerifyFunc == nil {
		panic("keyVerifierMock.VerifyFunc: method is nil but keyVerifier.Verify was just called")
	}
	callInfo := struct {
		Key string
	}{Key: key}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, callInfo)
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(key)
}

func (mock *keyVerifierMock) VerifyCalls() []struct {
	Key string
} {
	mock.lockVerify.RLock()
	calls := mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}
