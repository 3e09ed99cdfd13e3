// Package generation turns generator responses into validated recipes and
// displayable images.
package generation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/avast/retry-go/v4"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/pkg/logger"
	pkgRetry "github.com/futig/remedy-companion/internal/pkg/retry"
	"github.com/futig/remedy-companion/internal/pkg/validator"
	"github.com/futig/remedy-companion/internal/usecase/prompt"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	MinRating = 4.5
	MaxRating = 5.0
)

// FallbackImages are shown whenever image generation fails
var FallbackImages = []string{
	"https://images.unsplash.com/photo-1544787219-7f47ccb76574?q=80&w=1000&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1515541335405-f33c91967405?q=80&w=1000&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1466637574441-749b8f19452f?q=80&w=1000&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1595981267035-7b04ca84a82d?q=80&w=1000&auto=format&fit=crop",
}

type TextConnector interface {
	GenerateRecipe(ctx context.Context, req *entity.RecipeRequest) ([]byte, error)
}

type ImageConnector interface {
	GenerateImage(ctx context.Context, req *entity.ImageRequest) (*entity.GeneratedImage, error)
}

type Client struct {
	text      TextConnector
	image     ImageConnector
	validator *validator.Validator
	retry     pkgRetry.RetryConfig
	pick      func(n int) int
}

type Option func(*Client)

// WithPicker replaces the uniform random choice of the fallback image
func WithPicker(pick func(n int) int) Option {
	return func(c *Client) {
		c.pick = pick
	}
}

func NewClient(
	text TextConnector,
	image ImageConnector,
	v *validator.Validator,
	retryCfg pkgRetry.RetryConfig,
	opts ...Option,
) *Client {
	c := &Client{
		text:      text,
		image:     image,
		validator: v,
		retry:     retryCfg,
		pick:      rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateRecipeText requests, decodes and validates a recipe.
// Every failure is a *entity.GenerationError.
func (c *Client) GenerateRecipeText(ctx context.Context, req *entity.RecipeRequest) (*entity.Recipe, error) {
	ctx = logger.WithAction(ctx, "generate_recipe_text")

	var raw []byte
	err := retry.Do(
		func() error {
			var callErr error
			raw, callErr = c.text.GenerateRecipe(ctx, req)
			return callErr
		},
		append(c.retry.ToRetryOptions(),
			retry.Context(ctx),
			retry.OnRetry(func(n uint, err error) {
				ctxzap.Warn(ctx, "retrying recipe generation", zap.Uint("attempt", n+1), zap.Error(err))
			}),
		)...,
	)
	if err != nil {
		ctxzap.Error(ctx, "recipe generation failed", zap.Error(err))
		return nil, &entity.GenerationError{Op: "generate recipe", Err: err}
	}

	if len(raw) == 0 {
		return nil, &entity.GenerationError{Op: "generate recipe", Err: entity.ErrEmptyResponse}
	}

	var recipe entity.Recipe
	if err := json.Unmarshal(raw, &recipe); err != nil {
		ctxzap.Error(ctx, "recipe response is not valid JSON", zap.Error(err))
		return nil, &entity.GenerationError{Op: "decode recipe", Err: fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)}
	}

	if err := c.validator.Recipe(&recipe); err != nil {
		ctxzap.Error(ctx, "recipe response failed validation", zap.Error(err))
		return nil, &entity.GenerationError{Op: "validate recipe", Err: err}
	}

	recipe.Rating = clampRating(recipe.Rating)
	recipe.PrepType = req.PrepType
	recipe.ImageURL = ""

	ctxzap.Info(ctx, "recipe generated",
		zap.String("title", recipe.Title),
		zap.Int("steps", recipe.TotalSteps()),
		zap.Int("ingredients", recipe.TotalIngredients()),
	)

	return &recipe, nil
}

// GenerateRecipeImage never fails: any problem yields a fallback URL
func (c *Client) GenerateRecipeImage(ctx context.Context, recipe *entity.Recipe) (url string) {
	ctx = logger.WithAction(ctx, "generate_recipe_image")

	defer func() {
		if r := recover(); r != nil {
			ctxzap.Error(ctx, "panic during image generation", zap.Any("panic", r))
			url = c.fallbackImage()
		}
	}()

	img, err := c.image.GenerateImage(ctx, prompt.BuildImageRequest(recipe))
	if err != nil {
		ctxzap.Warn(ctx, "image generation failed, using fallback", zap.Error(err))
		return c.fallbackImage()
	}
	if img.Empty() {
		ctxzap.Warn(ctx, "image generation returned nothing, using fallback")
		return c.fallbackImage()
	}

	if len(img.Data) > 0 {
		mime := img.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img.Data))
	}

	return img.URL
}

func (c *Client) fallbackImage() string {
	return FallbackImages[c.pick(len(FallbackImages))]
}

// IsFallbackImage reports whether url is one of the fallback images
func IsFallbackImage(url string) bool {
	for _, f := range FallbackImages {
		if f == url {
			return true
		}
	}
	return false
}

func clampRating(r float64) float64 {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
