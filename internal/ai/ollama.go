package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type OllamaClient struct {
	base  string
	model string
	http  *http.Client
}

func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		base:  strings.TrimRight(baseURL, "/"),
		model: model,
		http:  &http.Client{Timeout: timeout},
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	b, _ := json.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})

	r, err := http.NewRequestWithContext(ctx, "POST", c.base+"/api/generate", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(r)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama api error: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var or ollamaResponse
	if err := json.Unmarshal(bodyBytes, &or); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if or.Error != "" {
		return "", fmt.Errorf("ollama api error: %s", or.Error)
	}
	if or.Response == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}
	return or.Response, nil
}
