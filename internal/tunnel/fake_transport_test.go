package tunnel

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

type closeCall struct {
	code   int
	reason string
}

// fakeTransport hands every sent message to the test through sent.
type fakeTransport struct {
	sent    chan []byte
	sendErr error

	mu     sync.Mutex
	closes []closeCall
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{sent: make(chan []byte, 64)}
}

func (f *fakeTransport) Send(_ context.Context, msg []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent <- msg
	return nil
}

func (f *fakeTransport) Close(code int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes = append(f.closes, closeCall{code, reason})
	return nil
}

func (f *fakeTransport) closeCalls() []closeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]closeCall(nil), f.closes...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeSent(t *testing.T, raw []byte) requestMessage {
	t.Helper()
	var msg requestMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode sent message: %v", err)
	}
	return msg
}

func responseFor(requestID string, status int, body string) []byte {
	msg := responseMessage{
		Type:       typeHTTPResponse,
		RequestID:  requestID,
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain", "Connection": "close"},
	}
	if body != "" {
		msg.BodyBase64 = base64.StdEncoding.EncodeToString([]byte(body))
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return raw
}

// answer replies to the next request sent over f with status and body.
func answer(t *testing.T, c *Conn, f *fakeTransport, status int, body string) {
	t.Helper()
	go func() {
		raw, ok := <-f.sent
		if !ok {
			return
		}
		var msg requestMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		c.Dispatch(responseFor(msg.RequestID, status, body))
	}()
}

var errBroken = errors.New("broken pipe")
