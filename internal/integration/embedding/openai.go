package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/docchat-backend/internal/config"
	pkgRetry "github.com/futig/docchat-backend/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAI embeds texts through an OpenAI-compatible embeddings endpoint.
// Transient failures (429, 5xx, network) are retried per cfg.Retry.
type OpenAI struct {
	client openai.Client
	cfg    config.EmbeddingConfig
	logger *zap.Logger
}

func NewOpenAI(cfg config.EmbeddingConfig, logger *zap.Logger) *OpenAI {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 64
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry = *pkgRetry.DefaultRetryConfig()
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		logger: logger,
	}
}

func (o *OpenAI) Name() string { return "openai" }

// Prepare is a no-op; the remote model needs no fitting
func (o *OpenAI) Prepare(context.Context, []string) error { return nil }

func (o *OpenAI) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += o.cfg.BatchSize {
		end := min(start+o.cfg.BatchSize, len(texts))

		batch, err := o.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (o *OpenAI) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (o *OpenAI) embed(ctx context.Context, texts []string) ([][]float32, error) {
	var resp *openai.CreateEmbeddingResponse

	err := retry.Do(
		func() error {
			var err error
			resp, err = o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
				Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
				Model: openai.EmbeddingModel(o.cfg.Model),
			})
			return err
		},
		append(o.cfg.Retry.ToRetryOptions(ctx, isTransient),
			retry.OnRetry(func(n uint, err error) {
				ctxzap.Warn(ctx, "retrying embeddings request", zap.Uint("attempt", n+1), zap.Error(err))
			}),
		)...,
	)
	if err != nil {
		return nil, fmt.Errorf("embed %d texts: %w", len(texts), err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("embeddings response index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
