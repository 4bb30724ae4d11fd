package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const openAIDefaultBaseURL = "https://api.openai.com"

// OpenAIAdapter connects to the OpenAI chat completions API.
type OpenAIAdapter struct {
	BaseURL string
	Client  *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *OpenAIAdapter) Name() string {
	return "openai"
}

func (a *OpenAIAdapter) Compare(ctx context.Context, cmp CompareRequest) (string, error) {
	reqBody := openAIChatRequest{
		Model: cmp.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: cmp.SystemPrompt + cmp.ReferenceText},
			{Role: "user", Content: cmp.UserPrompt + cmp.CandidateText},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	baseURL := a.BaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	url := strings.TrimRight(baseURL, "/") + "/v1/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cmp.APIKey)

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp openAIErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error.Message == "" {
			return "", fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("openai: API error: %s", errResp.Error.Message)
	}

	var chatResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response choices")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
