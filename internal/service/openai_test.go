package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelsearch/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAIClient(&config.OpenAIConfig{
		APIKey:              "sk-test",
		APIBase:             server.URL,
		ChatModel:           "chat-model",
		EmbeddingModel:      "embed-model",
		EmbeddingDimensions: 3,
		EmbeddingExtraBody:  `{"truncate":"NONE"}`,
		BatchSize:           2,
		Timeout:             5,
		Enabled:             true,
	})
}

func TestOpenAIClient_EmbedTextsBatchesAndOrders(t *testing.T) {
	var calls int
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "embed-model", req.Model)
		assert.Equal(t, "NONE", req.ExtraBody["truncate"])

		// answer out of order to exercise index placement
		data := []map[string]any{}
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{"index": i, "embedding": []float32{float32(len(req.Input[i])), 0, 1}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "embed-model", "data": data})
	})

	out, err := client.EmbedTexts(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, out, 3)
	assert.Equal(t, float32(1), out[0][0])
	assert.Equal(t, float32(2), out[1][0])
	assert.Equal(t, float32(3), out[2][0])
}

func TestOpenAIClient_ChatCompletion(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "chat-model", req.Model)

		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"city\":\"Paris\"}"}}]}`))
	})

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, `{"city":"Paris"}`, resp.Choices[0].Message.Content)
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	})

	_, err := client.EmbedText(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIClient_Disabled(t *testing.T) {
	client := NewOpenAIClient(&config.OpenAIConfig{BatchSize: 1})

	_, err := client.EmbedText(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrAIDisabled))

	_, err = client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	assert.True(t, errors.Is(err, ErrAIDisabled))
}

func TestNewEmbedder_SelectsBackend(t *testing.T) {
	cfg := &config.OpenAIConfig{APIKey: "sk", APIBase: "http://localhost:1", EmbeddingModel: "m", BatchSize: 10, Enabled: true}

	cfg.EmbeddingBackend = "http"
	client := NewOpenAIClient(cfg)
	e, err := NewEmbedder(cfg, client)
	require.NoError(t, err)
	assert.Same(t, client, e)

	cfg.EmbeddingBackend = "langchain"
	e, err = NewEmbedder(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &LangChainEmbedder{}, e)

	_, err = NewEmbedder(&config.OpenAIConfig{}, nil)
	assert.ErrorIs(t, err, ErrAIDisabled)
}
