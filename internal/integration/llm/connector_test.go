package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/remedy-companion/internal/config"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(url string) *Connector {
	return NewConnector(config.LLMConnectorConfig{
		HTTPClientConfig:       config.HTTPClientConfig{Url: url, Token: "t"},
		GenerateRecipeEndpoint: "/v1/recipes",
		GenerateImageEndpoint:  "/v1/images",
	}, zap.NewNop())
}

func TestConnectorGenerateRecipe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/recipes", r.URL.Path)

		var req entity.RecipeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "prompt", req.Prompt)

		_, _ = w.Write([]byte(`{"title":"Sciroppo"}`))
	}))
	defer srv.Close()

	raw, err := newTestConnector(srv.URL).GenerateRecipe(context.Background(), &entity.RecipeRequest{Prompt: "prompt"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Sciroppo"}`, string(raw))
}

func TestConnectorGenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images", r.URL.Path)
		// []byte fields travel as base64
		_, _ = w.Write([]byte(`{"data":"AQID","mime_type":"image/png"}`))
	}))
	defer srv.Close()

	img, err := newTestConnector(srv.URL).GenerateImage(context.Background(), &entity.ImageRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, img.Data)
}

func TestConnectorGenerateImageEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestConnector(srv.URL).GenerateImage(context.Background(), &entity.ImageRequest{})
	assert.ErrorIs(t, err, entity.ErrEmptyResponse)
}

func TestMockConnectorUsesPantry(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	raw, err := m.GenerateRecipe(context.Background(), &entity.RecipeRequest{Pantry: []string{"Miele", "Limone"}})
	require.NoError(t, err)

	var recipe entity.Recipe
	require.NoError(t, json.Unmarshal(raw, &recipe))
	assert.Contains(t, recipe.IngredientNames(), "Miele")
	assert.Equal(t, entity.DifficultyMedium, recipe.Difficulty)
	assert.Len(t, recipe.Steps, 3)
}
