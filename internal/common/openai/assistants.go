// internal/common/openai/assistants.go
package openai

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"
	"time"

	apperrors "lucy-chat/internal/common/errors"
	"lucy-chat/internal/common/http"
	"lucy-chat/internal/models"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// Client talks to the Assistants v2 REST API.
type Client struct {
	baseURL string
	rest    *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.rest = http.NewClient(timeout)
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		rest:    http.NewClient(30 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rest = c.rest.
		WithHeader("Authorization", "Bearer "+apiKey).
		WithHeader("OpenAI-Beta", "assistants=v2")
	return c
}

type objectResponse struct {
	ID string `json:"id"`
}

type runResponse struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Status   string `json:"status"`
}

type messageListResponse struct {
	Data []struct {
		ID      string `json:"id"`
		Role    string `json:"role"`
		RunID   string `json:"run_id"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
	HasMore bool   `json:"has_more"`
	LastID  string `json:"last_id"`
}

func (c *Client) CreateAssistant(ctx context.Context, spec models.AssistantSpec) (string, error) {
	var resp objectResponse
	if err := c.rest.DoJSON(ctx, nethttp.MethodPost, c.baseURL+"/assistants", spec, &resp); err != nil {
		return "", apperrors.NewAssistantRequestFailedError("assistants.create", err)
	}
	if resp.ID == "" {
		return "", apperrors.NewAssistantRequestFailedError("assistants.create", fmt.Errorf("empty assistant id"))
	}
	return resp.ID, nil
}

func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var resp objectResponse
	if err := c.rest.DoJSON(ctx, nethttp.MethodPost, c.baseURL+"/threads", map[string]interface{}{}, &resp); err != nil {
		return "", apperrors.NewAssistantRequestFailedError("threads.create", err)
	}
	if resp.ID == "" {
		return "", apperrors.NewAssistantRequestFailedError("threads.create", fmt.Errorf("empty thread id"))
	}
	return resp.ID, nil
}

// CreateMessage posts text as a user message on the thread.
func (c *Client) CreateMessage(ctx context.Context, threadID, text string) error {
	body := map[string]string{"role": "user", "content": text}
	u := fmt.Sprintf("%s/threads/%s/messages", c.baseURL, url.PathEscape(threadID))
	if err := c.rest.DoJSON(ctx, nethttp.MethodPost, u, body, nil); err != nil {
		return apperrors.NewAssistantRequestFailedError("messages.create", err)
	}
	return nil
}

func (c *Client) CreateRun(ctx context.Context, threadID, assistantID string) (models.AssistantRun, error) {
	body := map[string]string{"assistant_id": assistantID}
	u := fmt.Sprintf("%s/threads/%s/runs", c.baseURL, url.PathEscape(threadID))

	var resp runResponse
	if err := c.rest.DoJSON(ctx, nethttp.MethodPost, u, body, &resp); err != nil {
		return models.AssistantRun{}, apperrors.NewAssistantRequestFailedError("runs.create", err)
	}
	return toRun(resp, threadID), nil
}

func (c *Client) GetRun(ctx context.Context, threadID, runID string) (models.AssistantRun, error) {
	u := fmt.Sprintf("%s/threads/%s/runs/%s", c.baseURL, url.PathEscape(threadID), url.PathEscape(runID))

	var resp runResponse
	if err := c.rest.DoJSON(ctx, nethttp.MethodGet, u, nil, &resp); err != nil {
		return models.AssistantRun{}, apperrors.NewAssistantRequestFailedError("runs.retrieve", err)
	}
	return toRun(resp, threadID), nil
}

// ListMessages returns the thread's messages oldest first, following pagination.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]models.ThreadMessage, error) {
	var out []models.ThreadMessage
	after := ""
	for {
		q := url.Values{}
		q.Set("order", "asc")
		q.Set("limit", "100")
		if after != "" {
			q.Set("after", after)
		}
		u := fmt.Sprintf("%s/threads/%s/messages?%s", c.baseURL, url.PathEscape(threadID), q.Encode())

		var resp messageListResponse
		if err := c.rest.DoJSON(ctx, nethttp.MethodGet, u, nil, &resp); err != nil {
			return nil, apperrors.NewAssistantRequestFailedError("messages.list", err)
		}

		for _, m := range resp.Data {
			msg := models.ThreadMessage{ID: m.ID, Role: m.Role, RunID: m.RunID}
			for _, part := range m.Content {
				if part.Type == "text" {
					msg.Text = part.Text.Value
					break
				}
			}
			out = append(out, msg)
		}

		if !resp.HasMore || resp.LastID == "" {
			return out, nil
		}
		after = resp.LastID
	}
}

func toRun(resp runResponse, threadID string) models.AssistantRun {
	if resp.ThreadID != "" {
		threadID = resp.ThreadID
	}
	return models.AssistantRun{
		ID:       resp.ID,
		ThreadID: threadID,
		Status:   models.RunStatus(resp.Status),
	}
}
