package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(url, "test-key", "test-model", 0.7, 1500, 5*time.Second)
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"ok": true}`}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, "json_object", gotReq.ResponseFormat["type"])
}

func TestCompleteStripsMarkdownFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "```json\n{\"ok\": true}\n```"}},
			},
		})
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
}

func TestCompleteNon200IsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, tErr.Error(), "503")
}

func TestCompleteConnectionRefusedIsTransportError(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
}

func TestCompleteAPIErrorIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "model is overloaded", "type": "overloaded_error"},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, tErr.Error(), "model is overloaded")
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	var tErr *TransportError
	assert.False(t, errors.As(err, &tErr), "an empty but well-formed response is not a transport failure")
}
