package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/futig/remedy-companion/internal/config"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type mockModels struct {
	mock.Mock
}

func (m *mockModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, cfg)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func newTestConnector(models contentGenerator) *Connector {
	return &Connector{
		config: config.GeminiConfig{
			TextModel:   "gemini-2.5-flash",
			ImageModel:  "gemini-2.5-flash-image",
			AspectRatio: "3:4",
		},
		models: models,
		logger: zap.NewNop(),
	}
}

func response(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGenerateRecipe(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, "gemini-2.5-flash", mock.Anything,
		mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.ResponseMIMEType == "application/json" &&
				cfg.ResponseSchema != nil &&
				cfg.SystemInstruction != nil &&
				cfg.SystemInstruction.Parts[0].Text == "sys"
		}),
	).Return(response(&genai.Part{Text: `{"title":"Tisana"}`}), nil)

	c := newTestConnector(models)
	raw, err := c.GenerateRecipe(context.Background(), &entity.RecipeRequest{Prompt: "p", SystemInstruction: "sys"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Tisana"}`, string(raw))
	models.AssertExpectations(t)
}

func TestGenerateRecipeEmpty(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&genai.GenerateContentResponse{}, nil)

	_, err := newTestConnector(models).GenerateRecipe(context.Background(), &entity.RecipeRequest{})
	assert.ErrorIs(t, err, entity.ErrEmptyResponse)
}

func TestGenerateRecipeError(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota"))

	_, err := newTestConnector(models).GenerateRecipe(context.Background(), &entity.RecipeRequest{})
	assert.ErrorContains(t, err, "quota")
}

func TestGenerateImage(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, "gemini-2.5-flash-image", mock.Anything,
		mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.ImageConfig != nil && cfg.ImageConfig.AspectRatio == "3:4"
		}),
	).Return(response(
		&genai.Part{Text: "here you go"},
		&genai.Part{InlineData: &genai.Blob{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg"}},
	), nil)

	img, err := newTestConnector(models).GenerateImage(context.Background(), &entity.ImageRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, img.Data)
	assert.Equal(t, "image/jpeg", img.MIMEType)
}

func TestGenerateImageWithoutInlineData(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(response(&genai.Part{Text: "sorry"}), nil)

	_, err := newTestConnector(models).GenerateImage(context.Background(), &entity.ImageRequest{AspectRatio: "3:4"})
	assert.ErrorIs(t, err, entity.ErrEmptyResponse)
}

func TestRecipeSchemaRequiredFields(t *testing.T) {
	schema := recipeSchema()
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Contains(t, schema.Required, "steps")
	assert.ElementsMatch(t, []string{"Facile", "Media", "Difficile"}, schema.Properties["difficulty"].Enum)
}
