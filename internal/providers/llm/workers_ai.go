package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WorkersAI calls a Cloudflare Workers AI chat model over HTTP.
type WorkersAI struct {
	accountID  string
	token      string
	model      string
	httpClient *http.Client
}

func NewWorkersAI(accountID, token, model string) *WorkersAI {
	if model == "" {
		model = "@cf/meta/llama-3-8b-instruct"
	}
	return &WorkersAI{
		accountID:  accountID,
		token:      token,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (w *WorkersAI) Close() error { return nil }

type workersAIRequest struct {
	Messages []Message `json:"messages"`
}

type workersAIResponse struct {
	Result struct {
		Response string `json:"response"`
	} `json:"result"`
	Success bool `json:"success"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (w *WorkersAI) Complete(ctx context.Context, messages []Message) (string, error) {
	url := fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/ai/run/%s", w.accountID, w.model)

	body, err := json.Marshal(workersAIRequest{Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("workers ai: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("workers ai: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("workers ai: status %d: %s", resp.StatusCode, raw)
	}

	var out workersAIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("workers ai: decode: %w", err)
	}
	if !out.Success {
		msg := "unknown error"
		if len(out.Errors) > 0 {
			msg = out.Errors[0].Message
		}
		return "", fmt.Errorf("workers ai: %s", msg)
	}
	return out.Result.Response, nil
}
