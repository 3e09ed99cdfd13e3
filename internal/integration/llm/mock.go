package llm

import (
	"context"
	"encoding/json"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns a canned recipe for local runs without a model
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) GenerateRecipe(ctx context.Context, req *entity.RecipeRequest) ([]byte, error) {
	ctxzap.Info(ctx, "[MOCK] generating recipe via LLM")

	recipe := entity.Recipe{
		Title:           "Tisana Balsamica al Miele",
		Tagline:         "Un abbraccio caldo per la gola",
		TimeMinutes:     15,
		IngredientCount: 3,
		StepCount:       3,
		Difficulty:      req.Complexity.Difficulty,
		Rating:          4.8,
		IngredientsList: []entity.IngredientAmount{
			{Name: "Acqua", Amount: "250 ml"},
		},
		ToolsList: []string{"Pentolino", "Tazza", "Colino", "Cucchiaino"},
		Benefits:  "Lenisce la gola e scalda il corpo. Il miele ammorbidisce la tosse secca.",
		Steps: []entity.RecipeStep{
			{Instruction: "Porta a leggero bollore 250 ml di acqua nel pentolino."},
			{Instruction: "Spegni il fuoco, versa l'acqua nella tazza e lascia intiepidire per 2 minuti.", Tip: "Il miele perde le sue proprietà sopra i 40°C."},
			{Instruction: "Aggiungi gli ingredienti della dispensa, mescola con il cucchiaino e filtra con il colino."},
		},
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = entity.DifficultyMedium
	}
	for _, name := range req.Pantry {
		recipe.IngredientsList = append(recipe.IngredientsList, entity.IngredientAmount{Name: name, Amount: "q.b."})
	}
	if req.Variation != nil {
		recipe.Title = "Decotto Alternativo della Dispensa"
	}

	raw, err := json.Marshal(recipe)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "[MOCK] recipe generated", zap.Int("response_length", len(raw)))
	return raw, nil
}

// GenerateImage returns a remote placeholder instead of image bytes
func (m *MockConnector) GenerateImage(ctx context.Context, req *entity.ImageRequest) (*entity.GeneratedImage, error) {
	ctxzap.Info(ctx, "[MOCK] generating recipe image")

	return &entity.GeneratedImage{
		URL: "https://images.unsplash.com/photo-1544787219-7f47ccb76574?q=80&w=1000&auto=format&fit=crop",
	}, nil
}
