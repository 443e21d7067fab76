package generation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/integration/common"
	pkghttp "github.com/futig/docchat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxLineSize bounds a single streamed line
const maxLineSize = 1 << 20

type Connector struct {
	config          config.GenerationConfig
	connector       *pkghttp.Connector
	streamConnector *pkghttp.Connector
	logger          *zap.Logger
}

func NewConnector(
	cfg config.GenerationConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector:       common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		streamConnector: common.NewStreamConnector(cfg.HTTPClientConfig, cfg.StreamTimeout, logger),
		config:          cfg,
		logger:          logger,
	}
}

func (c *Connector) payload(req *entity.GenerationRequest, withMetadata bool) *entity.GenerationPayload {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = entity.DefaultMaxTokens
	}

	p := &entity.GenerationPayload{
		Prompt:        req.Prompt,
		AccountType:   c.config.AccountType,
		SecretKey:     c.config.APIKey,
		Source:        c.config.Source,
		Category:      c.config.Category,
		AppKey:        c.config.AppKey,
		MaxTokens:     maxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		StopSequences: req.StopSequences,
	}
	if withMetadata {
		metadata := true
		p.LLMMetadata = &metadata
	}
	return p
}

// Complete sends the prompt to the blocking endpoint and returns the answer text
func (c *Connector) Complete(ctx context.Context, req *entity.GenerationRequest) (string, error) {
	ctxzap.Debug(ctx, "requesting completion", zap.Int("prompt_length", len(req.Prompt)))

	var resp entity.GenerationResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, "", c.payload(req, true), &resp)
	if err != nil {
		return "", upstreamError(err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("%w: missing content[0].text", entity.ErrMalformedResponse)
	}

	ctxzap.Debug(ctx, "completion received", zap.Int("answer_length", len(resp.Content[0].Text)))

	return resp.Content[0].Text, nil
}

// StreamComplete sends the prompt to the streaming endpoint. Every non-empty
// line of the response body, trimmed, is delivered as one fragment.
// Both channels are closed when the stream ends; the error channel carries at
// most one error and is nil-valued on a clean finish.
func (c *Connector) StreamComplete(ctx context.Context, req *entity.GenerationRequest) (<-chan string, <-chan error) {
	fragments := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		defer close(fragments)

		body, err := c.streamConnector.DoStream(ctx, http.MethodPost, "", c.payload(req, false),
			pkghttp.WithURL(c.config.StreamURL))
		if err != nil {
			errCh <- upstreamError(err)
			return
		}
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		count := 0
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			select {
			case fragments <- text:
				count++
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}

		if err := scanner.Err(); err != nil {
			if ctx.Err() != nil {
				errCh <- ctx.Err()
				return
			}
			errCh <- fmt.Errorf("%w: stream interrupted after %d fragments: %w", entity.ErrUpstream, count, err)
			return
		}

		ctxzap.Debug(ctx, "stream finished", zap.Int("fragments", count))
	}()

	return fragments, errCh
}

func upstreamError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", entity.ErrUpstream, err)
}
