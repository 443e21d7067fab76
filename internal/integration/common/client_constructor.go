package common

import (
	"time"

	"github.com/futig/docchat-backend/internal/config"
	pkgHTTP "github.com/futig/docchat-backend/pkg/http"
	"go.uber.org/zap"
)

const userAgent = "docchat-backend"

func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger, extra ...pkgHTTP.HttpOpts) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithUserAgent(userAgent),
		pkgHTTP.WithAuthToken(cfg.Token),
		pkgHTTP.WithRequestLogging(),
	}

	return pkgHTTP.NewConnector(connCfg, append(opts, extra...)...)
}

// NewStreamConnector builds a connector for long-lived streamed responses.
// The whole-request timeout is replaced by streamTimeout (zero means none);
// cancellation is left to the request context.
func NewStreamConnector(cfg config.HTTPClientConfig, streamTimeout time.Duration, logger *zap.Logger) *pkgHTTP.Connector {
	cfg.RequestTimeout = streamTimeout
	return NewBaseConnector(cfg, logger, pkgHTTP.WithDisableCompression())
}
