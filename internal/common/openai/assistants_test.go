package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "lucy-chat/internal/common/errors"
	"lucy-chat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewClient("sk-test", WithBaseURL(server.URL), WithTimeout(5*time.Second))
}

func TestClient_CreateAssistantAndThread(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		switch r.URL.Path {
		case "/assistants":
			var spec models.AssistantSpec
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&spec))
			assert.Equal(t, "Lucy", spec.Name)
			assert.Equal(t, "gpt-3.5-turbo-0125", spec.Model)
			_, _ = w.Write([]byte(`{"id":"asst_1","object":"assistant"}`))
		case "/threads":
			_, _ = w.Write([]byte(`{"id":"thread_1","object":"thread"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	id, err := client.CreateAssistant(ctx, models.AssistantSpec{Name: "Lucy", Instructions: "be nice", Model: "gpt-3.5-turbo-0125"})
	require.NoError(t, err)
	assert.Equal(t, "asst_1", id)

	threadID, err := client.CreateThread(ctx)
	require.NoError(t, err)
	assert.Equal(t, "thread_1", threadID)
}

func TestClient_MessageAndRunLifecycle(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_1/messages":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "user", body["role"])
			assert.Equal(t, "do the thing", body["content"])
			_, _ = w.Write([]byte(`{"id":"msg_1"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_1/runs":
			_, _ = w.Write([]byte(`{"id":"run_1","thread_id":"thread_1","status":"queued"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/threads/thread_1/runs/run_1":
			_, _ = w.Write([]byte(`{"id":"run_1","thread_id":"thread_1","status":"in_progress"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	require.NoError(t, client.CreateMessage(ctx, "thread_1", "do the thing"))

	run, err := client.CreateRun(ctx, "thread_1", "asst_1")
	require.NoError(t, err)
	assert.Equal(t, models.AssistantRun{ID: "run_1", ThreadID: "thread_1", Status: models.RunQueued}, run)

	run, err = client.GetRun(ctx, "thread_1", "run_1")
	require.NoError(t, err)
	assert.Equal(t, models.RunInProgress, run.Status)
}

func TestClient_ListMessagesPaginates(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "asc", r.URL.Query().Get("order"))
		if r.URL.Query().Get("after") == "" {
			_, _ = w.Write([]byte(`{"data":[
				{"id":"m1","role":"user","run_id":"","content":[{"type":"text","text":{"value":"hi"}}]},
				{"id":"m2","role":"assistant","run_id":"run_0","content":[{"type":"text","text":{"value":"old"}}]}
			],"has_more":true,"last_id":"m2"}`))
			return
		}
		assert.Equal(t, "m2", r.URL.Query().Get("after"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":"m3","role":"assistant","run_id":"run_1","content":[{"type":"image_file"},{"type":"text","text":{"value":"new"}}]}
		],"has_more":false,"last_id":"m3"}`))
	})

	msgs, err := client.ListMessages(context.Background(), "thread_1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.Equal(t, "run_1", msgs[2].RunID)
	assert.Equal(t, "new", msgs[2].Text)
}

func TestClient_TransportErrors(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	_, err := client.CreateRun(context.Background(), "thread_1", "asst_1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAssistantRequestFailed, apperrors.CodeOf(err))

	err = client.CreateMessage(context.Background(), "thread_1", "x")
	assert.Equal(t, apperrors.ErrCodeAssistantRequestFailed, apperrors.CodeOf(err))

	_, err = client.CreateThread(context.Background())
	assert.Error(t, err)
}

func TestClient_EmptyIDIsError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := client.CreateAssistant(context.Background(), models.AssistantSpec{Name: "Lucy"})
	assert.Error(t, err)
}
