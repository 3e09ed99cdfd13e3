package remedy

import (
	"context"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/usecase/preference"
	"github.com/futig/remedy-companion/internal/usecase/session"
	"github.com/futig/remedy-companion/internal/usecase/walkthrough"
)

type SessionService interface {
	Catalog() *catalog.Catalog
	Create(ctx context.Context) (*session.View, error)
	View(ctx context.Context, id string) (*session.View, error)
	Delete(ctx context.Context, id string) error
	UpdatePreferences(ctx context.Context, id string, change preference.Change) (bool, error)
	SubmitAsync(ctx context.Context, id string, done session.DoneFunc) (*session.View, error)
	RegenerateAsync(ctx context.Context, id string, done session.DoneFunc) (*session.View, error)
	Back(ctx context.Context, id string) (*session.View, error)
	DismissError(ctx context.Context, id string) (*session.View, error)
	StartPreparation(ctx context.Context, id string, listener walkthrough.Listener) (<-chan struct{}, error)
	WalkthroughSnapshot(ctx context.Context, id string) (walkthrough.Snapshot, error)
	ConfirmStep(ctx context.Context, id string) (<-chan struct{}, error)
	RequestExit(ctx context.Context, id string) error
	CancelExit(ctx context.Context, id string) error
	ConfirmExit(ctx context.Context, id string) (*session.View, error)
	Complete(ctx context.Context, id string) (*session.View, error)
	ExportRecipe(ctx context.Context, id string, format entity.ExportFormat) (*session.Export, error)
	SaveRecipe(ctx context.Context, id, owner string) (*entity.SavedRecipe, error)
	ListSavedRecipes(ctx context.Context, owner string) ([]*entity.SavedRecipe, error)
	GetSavedRecipe(ctx context.Context, owner, savedID string) (*entity.SavedRecipe, error)
	DeleteSavedRecipe(ctx context.Context, owner, savedID string) error
}

type CallbackConnector interface {
	SendRecipeReady(ctx context.Context, callbackURL, sessionID, requestID string, data any)
	SendError(ctx context.Context, callbackURL, sessionID, requestID, message string, details map[string]any)
}
