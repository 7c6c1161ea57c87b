package services

import (
	"context"
	"encoding/json"
	"sync"
)

type sentRequest struct {
	Ctx      context.Context
	Endpoint Endpoint
	Body     any
}

// fakeDispatcher answers from respond. When release is set, Send signals
// entered and blocks until release is closed.
type fakeDispatcher struct {
	respond func(endpoint Endpoint, body any) (json.RawMessage, error)
	entered chan Endpoint
	release chan struct{}

	mu    sync.Mutex
	calls []sentRequest
}

func newFakeDispatcher(respond func(endpoint Endpoint, body any) (json.RawMessage, error)) *fakeDispatcher {
	return &fakeDispatcher{respond: respond}
}

// blocking makes every Send wait for unblock.
func (f *fakeDispatcher) blocking() *fakeDispatcher {
	f.entered = make(chan Endpoint, 8)
	f.release = make(chan struct{})
	return f
}

func (f *fakeDispatcher) unblock() { close(f.release) }

func (f *fakeDispatcher) Send(ctx context.Context, endpoint Endpoint, body any) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, sentRequest{Ctx: ctx, Endpoint: endpoint, Body: body})
	f.mu.Unlock()

	if f.release != nil {
		f.entered <- endpoint
		<-f.release
	}
	return f.respond(endpoint, body)
}

func (f *fakeDispatcher) Calls() []sentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentRequest(nil), f.calls...)
}

func respondJSON(body string) func(Endpoint, any) (json.RawMessage, error) {
	return func(Endpoint, any) (json.RawMessage, error) {
		return Normalize(json.RawMessage(body))
	}
}

func respondError(err error) func(Endpoint, any) (json.RawMessage, error) {
	return func(Endpoint, any) (json.RawMessage, error) {
		return nil, err
	}
}
