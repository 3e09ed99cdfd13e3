package callback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/remedy-companion/internal/config"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/integration/common"
	pkghttp "github.com/futig/remedy-companion/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.CallbackConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
	now       func() time.Time
}

func NewConnector(
	cfg config.CallbackConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SendRecipeReady notifies the client that generation settled in PREVIEW
func (c *Connector) SendRecipeReady(ctx context.Context, callbackURL, sessionID, requestID string, data any) {
	err := c.Send(ctx, callbackURL, &entity.CallbackEvent{
		Event:     entity.CallbackEventTypeRecipeReady,
		SessionID: sessionID,
		RequestID: requestID,
		Data:      data,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send recipe ready callback", zap.Error(err))
	}
}

// SendError notifies the client that generation failed
func (c *Connector) SendError(ctx context.Context, callbackURL, sessionID, requestID, message string, details map[string]any) {
	err := c.Send(ctx, callbackURL, &entity.CallbackEvent{
		Event:     entity.CallbackEventTypeError,
		SessionID: sessionID,
		RequestID: requestID,
		Data: &entity.CallbackErrorData{
			Message: message,
			Details: details,
		},
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send error callback", zap.Error(err))
	}
}

func (c *Connector) Send(ctx context.Context, callbackURL string, event *entity.CallbackEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = c.now().UTC().Format(time.RFC3339)
	}

	ctxzap.Debug(ctx, "sending callback event",
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("request_id", event.RequestID),
	)

	opts := []pkghttp.RequestOpt{
		pkghttp.WithHeader("X-Request-ID", event.RequestID),
		pkghttp.WithURL(callbackURL),
	}

	retryOpts := append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "callback attempt failed", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)

	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, "", event, nil, opts...)
	}, retryOpts...)
	if err != nil {
		return fmt.Errorf("failed to send callback, event_type: %s, url: %s, error: %w", string(event.Event), callbackURL, err)
	}

	ctxzap.Info(ctx, "callback sent successfully",
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("request_id", event.RequestID),
	)
	return nil
}

// isRetryable retries network failures and 5xx/429 answers only
func isRetryable(err error) bool {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}
	var netErr *pkghttp.NetworkError
	return errors.As(err, &netErr)
}
