package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/remedy-companion/internal/config"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/integration/common"
	pkghttp "github.com/futig/remedy-companion/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector calls a generator service that fronts the model over HTTP
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// GenerateRecipe posts the recipe request and returns the service's raw recipe JSON
func (c *Connector) GenerateRecipe(ctx context.Context, req *entity.RecipeRequest) ([]byte, error) {
	ctxzap.Info(ctx, "generating recipe via LLM service")

	raw, err := c.connector.DoRawRequest(ctx, http.MethodPost, c.config.GenerateRecipeEndpoint, req)
	if err != nil {
		return nil, fmt.Errorf("generate recipe failed: %w", err)
	}

	if len(raw) == 0 {
		return nil, entity.ErrEmptyResponse
	}

	ctxzap.Info(ctx, "recipe generated successfully", zap.Int("response_length", len(raw)))

	return raw, nil
}

// GenerateImage posts the image request; the service answers with base64 data or a URL
func (c *Connector) GenerateImage(ctx context.Context, req *entity.ImageRequest) (*entity.GeneratedImage, error) {
	ctxzap.Info(ctx, "generating recipe image via LLM service")

	var resp entity.GeneratedImage
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateImageEndpoint, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("generate image failed: %w", err)
	}

	if resp.Empty() {
		return nil, fmt.Errorf("invalid image response: %w", entity.ErrEmptyResponse)
	}

	ctxzap.Info(ctx, "image generated successfully", zap.Int("bytes", len(resp.Data)), zap.Bool("remote", resp.URL != ""))

	return &resp, nil
}
