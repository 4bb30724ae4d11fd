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

func TestGeminiAdapterCompare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-upstream", r.Header.Get("x-goog-api-key"))

		var req geminiGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Equal(t, "Compare against: the reference Candidate: the candidate",
			req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "88% "},
					{"text": "similar"},
				}}},
			},
		})
	}))
	defer srv.Close()

	adapter := &GeminiAdapter{
		BaseURL: srv.URL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}

	got, err := adapter.Compare(context.Background(), CompareRequest{
		SystemPrompt:  "Compare against: ",
		UserPrompt:    "Candidate: ",
		ReferenceText: "the reference",
		CandidateText: "the candidate",
		Model:         "gemini-1.5-flash",
		APIKey:        "g-upstream",
	})
	require.NoError(t, err)
	assert.Equal(t, "88% similar", got)
}

func TestGeminiAdapterUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	adapter := &GeminiAdapter{BaseURL: srv.URL, Client: srv.Client()}

	_, err := adapter.Compare(context.Background(), CompareRequest{Model: "gemini-1.5-flash"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestGeminiAdapterEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	adapter := &GeminiAdapter{BaseURL: srv.URL, Client: srv.Client()}

	_, err := adapter.Compare(context.Background(), CompareRequest{Model: "gemini-1.5-flash"})
	require.Error(t, err)
}
