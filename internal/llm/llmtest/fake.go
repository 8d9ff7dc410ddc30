// Package llmtest provides a scripted completion provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/luxbiz/biz-optimizer/internal/llm"
)

// Fake answers every call with Reply (or Err) and records the requests.
type Fake struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	Requests []llm.Request
	// Replies, when set, are consumed in order before Reply is used.
	Replies []string
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Complete(_ context.Context, req llm.Request) (*llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)
	if f.Err != nil {
		return nil, f.Err
	}
	text := f.Reply
	if len(f.Replies) > 0 {
		text = f.Replies[0]
		f.Replies = f.Replies[1:]
	}
	return &llm.Completion{Text: text, Model: "fake"}, nil
}

// Calls returns how many completions were requested.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// Last returns the most recent request.
func (f *Fake) Last() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return llm.Request{}
	}
	return f.Requests[len(f.Requests)-1]
}
