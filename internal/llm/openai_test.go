package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, RoleSystem, req.Messages[0].Role)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_schema", req.ResponseFormat.Type)

		_, _ = w.Write([]byte(`{"model":"gpt-test-0613","choices":[{"message":{"role":"assistant","content":" {\"ok\":true} "}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL+"/", "sk-test", "gpt-test", 5*time.Second)
	c, err := p.Complete(context.Background(), Request{
		Messages: []Message{System("be brief"), User("hi")},
		Schema:   Object(map[string]*Schema{"ok": {Type: "boolean"}}),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, c.Text)
	assert.Equal(t, "gpt-test-0613", c.Model)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer bad" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIProvider(srv.URL, "bad", "m", time.Second).Complete(context.Background(), Request{Messages: []Message{User("x")}})
	assert.ErrorContains(t, err, "invalid api key")

	_, err = NewOpenAIProvider(srv.URL, "good", "m", time.Second).Complete(context.Background(), Request{Messages: []Message{User("x")}})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

type countingProvider struct{ calls int }

func (c *countingProvider) Name() string { return "counting" }

func (c *countingProvider) Complete(ctx context.Context, _ Request) (*Completion, error) {
	c.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, context.DeadlineExceeded
	}
	return &Completion{Text: "ok"}, nil
}

func TestInstrumentAppliesTimeout(t *testing.T) {
	inner := &countingProvider{}
	p := Instrument(inner, 0, time.Second)

	c, err := p.Complete(context.Background(), Request{Messages: []Message{User("x")}})
	require.NoError(t, err)
	assert.Equal(t, "ok", c.Text)
	assert.Equal(t, "counting", p.Name())
	assert.Equal(t, 1, inner.calls)
}
