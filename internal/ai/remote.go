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

	"habitly/internal/core"
)

// Client is a remote analyzer backend.
type Client interface {
	Analyze(ctx context.Context, expenses []core.Expense) (AnalysisResult, error)
	Chat(ctx context.Context, expenses []core.Expense, message string) (string, error)
}

// RemoteClient calls an external analyzer service over HTTP JSON.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

type analyzeRequest struct {
	Expenses []core.Expense `json:"expenses"`
}

type chatRequest struct {
	Expenses []core.Expense `json:"expenses"`
	Message  string         `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// NewRemoteClient creates an analyzer client for the given base URL.
func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyze requests a full spending analysis from the remote service.
func (c *RemoteClient) Analyze(ctx context.Context, expenses []core.Expense) (AnalysisResult, error) {
	var result AnalysisResult
	err := c.post(ctx, "/api/ai/analyze", analyzeRequest{Expenses: expenses}, &result)
	return result, err
}

// Chat requests a conversational reply grounded in the expense list.
func (c *RemoteClient) Chat(ctx context.Context, expenses []core.Expense, message string) (string, error) {
	var response chatResponse
	if err := c.post(ctx, "/api/ai/chat", chatRequest{Expenses: expenses, Message: message}, &response); err != nil {
		return "", err
	}
	return response.Reply, nil
}

func (c *RemoteClient) post(ctx context.Context, path string, request, response any) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("analyzer %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.Unmarshal(body, response)
}
