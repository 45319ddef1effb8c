package providers

import (
	"context"
	"errors"
	"sync"
	"time"
)

const MockClientName = "mock"

// MockResponse scripts the outcome of a single Chat call.
type MockResponse struct {
	Content string
	Err     error
}

// MockClient is an LLMClient for testing. Responses are consumed in order;
// every request is recorded so tests can assert on the exact transcript the
// caller sent.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	requests  []*ChatRequest
}

// NewMockClient creates a mock client that plays back the given responses.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Chat records the request and returns the next scripted response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Snapshot the message slice: callers rebuild transcripts between
	// attempts and tests must see each attempt as it was sent.
	snapshot := *req
	snapshot.Messages = append([]Message(nil), req.Messages...)
	c.requests = append(c.requests, &snapshot)

	if len(c.requests) > len(c.responses) {
		return nil, errors.New("mock client: no scripted response left")
	}

	resp := c.responses[len(c.requests)-1]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &ChatResult{
		Content:       resp.Content,
		ModelUsed:     MockClientName,
		ExecutionTime: time.Millisecond,
	}, nil
}

// Requests returns every recorded request, in call order.
func (c *MockClient) Requests() []*ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*ChatRequest(nil), c.requests...)
}

// Calls returns the number of Chat invocations.
func (c *MockClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
