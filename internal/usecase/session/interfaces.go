package session

import (
	"context"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/pkg/formatter"
)

// Store keeps live session contexts
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, id string, s *Session) error
	Delete(ctx context.Context, id string) error
}

type SavedRecipeRepository interface {
	Save(ctx context.Context, saved *entity.SavedRecipe) error
	Get(ctx context.Context, id string) (*entity.SavedRecipe, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]*entity.SavedRecipe, error)
	Delete(ctx context.Context, owner, id string) error
}

type FormatterFactory interface {
	Create(format entity.ExportFormat) (formatter.Formatter, error)
}
