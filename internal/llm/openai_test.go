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

func TestOpenAIAdapterCompare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-upstream", r.Header.Get("Authorization"))

		var req openAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Compare against: the reference", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "Candidate: the candidate", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  92% similar  "}},
			},
		})
	}))
	defer srv.Close()

	adapter := &OpenAIAdapter{
		BaseURL: srv.URL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}

	got, err := adapter.Compare(context.Background(), CompareRequest{
		SystemPrompt:  "Compare against: ",
		UserPrompt:    "Candidate: ",
		ReferenceText: "the reference",
		CandidateText: "the candidate",
		Model:         "gpt-4o",
		APIKey:        "sk-upstream",
	})
	require.NoError(t, err)
	assert.Equal(t, "92% similar", got)
}

func TestOpenAIAdapterAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Incorrect API key provided"},
		})
	}))
	defer srv.Close()

	adapter := &OpenAIAdapter{BaseURL: srv.URL, Client: srv.Client()}

	_, err := adapter.Compare(context.Background(), CompareRequest{Model: "gpt-4o"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestOpenAIAdapterUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := &OpenAIAdapter{BaseURL: srv.URL, Client: srv.Client()}

	_, err := adapter.Compare(context.Background(), CompareRequest{Model: "gpt-4o"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestOpenAIAdapterEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAIChatResponse{})
	}))
	defer srv.Close()

	adapter := &OpenAIAdapter{BaseURL: srv.URL, Client: srv.Client()}

	_, err := adapter.Compare(context.Background(), CompareRequest{Model: "gpt-4o"})
	require.Error(t, err)
}

func TestOpenAIAdapterContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
	}))
	defer srv.Close()

	adapter := &OpenAIAdapter{BaseURL: srv.URL, Client: srv.Client()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Compare(ctx, CompareRequest{Model: "gpt-4o"})
	require.Error(t, err)
}
