package tunnel

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	typeHTTPRequest  = "http_request"
	typeHTTPResponse = "http_response"
)

// Request is an HTTP-shaped request relayed to an edge agent.
// URL is the path and query on the agent side.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the agent's answer to a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type envelope struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
}

type requestMessage struct {
	Type       string            `json:"type"`
	RequestID  string            `json:"requestId"`
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	Headers    map[string]string `json:"headers"`
	BodyBase64 string            `json:"bodyBase64,omitempty"`
}

type responseMessage struct {
	Type       string            `json:"type"`
	RequestID  string            `json:"requestId"`
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	BodyBase64 string            `json:"bodyBase64,omitempty"`
}

func encodeRequest(requestID string, r Request) ([]byte, error) {
	msg := requestMessage{
		Type:      typeHTTPRequest,
		RequestID: requestID,
		Method:    r.Method,
		URL:       r.URL,
		Headers:   FlattenHeaders(r.Header),
	}
	if len(r.Body) > 0 {
		msg.BodyBase64 = base64.StdEncoding.EncodeToString(r.Body)
	}
	return json.Marshal(msg)
}

func decodeResponse(msg responseMessage) (*Response, error) {
	if msg.StatusCode < 100 || msg.StatusCode > 599 {
		return nil, fmt.Errorf("%w: status code %d", ErrBadResponse, msg.StatusCode)
	}
	var body []byte
	if msg.BodyBase64 != "" {
		b, err := base64.StdEncoding.DecodeString(msg.BodyBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: body: %w", ErrBadResponse, err)
		}
		body = b
	}
	return &Response{
		StatusCode: msg.StatusCode,
		Header:     ExpandHeaders(msg.Headers),
		Body:       body,
	}, nil
}
