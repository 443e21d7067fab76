package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/docchat-backend/internal/config"
	pkgRetry "github.com/futig/docchat-backend/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

func fakeEmbeddings(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"busy","type":"server_error"}}`))
			return
		}

		var req embeddingsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data := make([]map[string]any, 0, len(req.Input))
		// answer in reverse order to check the index mapping
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float64{float64(len(req.Input[i])), 1},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	return srv, &calls
}

func testEmbeddingConfig(baseURL string) config.EmbeddingConfig {
	return config.EmbeddingConfig{
		Provider:  "openai",
		BaseURL:   baseURL,
		APIKey:    "test",
		Model:     "text-embedding-3-small",
		BatchSize: 2,
		Timeout:   5 * time.Second,
		Retry: pkgRetry.RetryConfig{
			Attempts: 3,
			Delay:    time.Millisecond,
			MaxDelay: 5 * time.Millisecond,
		},
	}
}

func TestOpenAI_EmbedDocumentsKeepsOrderAcrossBatches(t *testing.T) {
	srv, calls := fakeEmbeddings(t, 0)
	defer srv.Close()

	e := NewOpenAI(testEmbeddingConfig(srv.URL), zap.NewNop())
	require.NoError(t, e.Prepare(context.Background(), nil))

	vecs, err := e.EmbedDocuments(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)

	require.Len(t, vecs, 3)
	assert.Equal(t, []float32{1, 1}, vecs[0])
	assert.Equal(t, []float32{2, 1}, vecs[1])
	assert.Equal(t, []float32{3, 1}, vecs[2])
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAI_RetriesTransientFailures(t *testing.T) {
	srv, calls := fakeEmbeddings(t, 2)
	defer srv.Close()

	e := NewOpenAI(testEmbeddingConfig(srv.URL), zap.NewNop())

	vec, err := e.EmbedQuery(context.Background(), "four")
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1}, vec)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAI_GivesUpAfterAttempts(t *testing.T) {
	srv, calls := fakeEmbeddings(t, 10)
	defer srv.Close()

	e := NewOpenAI(testEmbeddingConfig(srv.URL), zap.NewNop())

	_, err := e.EmbedQuery(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}
