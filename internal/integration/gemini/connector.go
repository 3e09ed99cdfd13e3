// Package gemini talks to the Gemini API for recipe text and images.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/remedy-companion/internal/config"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentGenerator is the part of *genai.Models the connector needs
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

type Connector struct {
	config config.GeminiConfig
	models contentGenerator
	logger *zap.Logger
}

func NewConnector(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*Connector, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Connector{
		config: cfg,
		models: cli.Models,
		logger: logger,
	}, nil
}

func textContent(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// GenerateRecipe asks the text model for a recipe and returns its raw JSON
func (c *Connector) GenerateRecipe(ctx context.Context, req *entity.RecipeRequest) ([]byte, error) {
	ctxzap.Info(ctx, "generating recipe via Gemini", zap.String("model", c.config.TextModel))

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recipeSchema(),
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = textContent(req.SystemInstruction)
	}

	resp, err := c.models.GenerateContent(ctx, c.config.TextModel, []*genai.Content{textContent(req.Prompt)}, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return nil, entity.ErrEmptyResponse
	}

	ctxzap.Info(ctx, "recipe generated", zap.Int("response_length", len(text)))

	return []byte(text), nil
}

// GenerateImage asks the image model for a picture and returns the first inline image
func (c *Connector) GenerateImage(ctx context.Context, req *entity.ImageRequest) (*entity.GeneratedImage, error) {
	ctxzap.Info(ctx, "generating recipe image via Gemini", zap.String("model", c.config.ImageModel))

	aspect := req.AspectRatio
	if aspect == "" {
		aspect = c.config.AspectRatio
	}

	resp, err := c.models.GenerateContent(ctx, c.config.ImageModel, []*genai.Content{textContent(req.Prompt)},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: aspect},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate image: %w", err)
	}

	for _, part := range firstCandidateParts(resp) {
		if part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}

		mime := part.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}

		ctxzap.Info(ctx, "recipe image generated", zap.Int("bytes", len(part.InlineData.Data)), zap.String("mime", mime))

		return &entity.GeneratedImage{Data: part.InlineData.Data, MIMEType: mime}, nil
	}

	return nil, fmt.Errorf("%w: no inline image in response", entity.ErrEmptyResponse)
}

func firstCandidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, part := range firstCandidateParts(resp) {
		if part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
