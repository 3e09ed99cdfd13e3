package common

import (
	"github.com/futig/remedy-companion/internal/config"
	pkgHTTP "github.com/futig/remedy-companion/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds the shared outbound HTTP connector for a service
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	auth := pkgHTTP.WithAuthToken(cfg.Token)
	if cfg.TokenHeader != "" {
		auth = pkgHTTP.WithAPIKey(cfg.TokenHeader, cfg.Token)
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		auth,
	)
}
