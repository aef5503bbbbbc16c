package api

import (
	"io"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockHTTPClient is a mock implementation of HTTPDoer for testing
type MockHTTPClient struct {
	Response *fhttp.Response
	Err      error

	mu         sync.Mutex
	requests   []*fhttp.Request
	bodies     [][]byte
	idleClosed bool
}

// Do records the request and returns the configured response
func (m *MockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, data)
	}
	return m.Response, m.Err
}

// CloseIdleConnections records the call
func (m *MockHTTPClient) CloseIdleConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleClosed = true
}

// LastRequest returns the last request passed to Do
func (m *MockHTTPClient) LastRequest() *fhttp.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// LastBody returns the body of the last request passed to Do
func (m *MockHTTPClient) LastBody() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return nil
	}
	return m.bodies[len(m.bodies)-1]
}

// NewMockHTTPClient creates a new MockHTTPClient with a fixed response
func NewMockHTTPClient(body []byte, statusCode int) *MockHTTPClient {
	return &MockHTTPClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHTTPClientWithError creates a new MockHTTPClient that returns an error
func NewMockHTTPClientWithError(err error) *MockHTTPClient {
	return &MockHTTPClient{
		Response: nil,
		Err:      err,
	}
}
