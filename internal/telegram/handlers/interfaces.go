package handlers

import (
	"context"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/usecase/preference"
	"github.com/futig/remedy-companion/internal/usecase/session"
	"github.com/futig/remedy-companion/internal/usecase/walkthrough"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SessionService is the subset of the remedy session service the bot drives
type SessionService interface {
	Create(ctx context.Context) (*session.View, error)
	View(ctx context.Context, id string) (*session.View, error)
	Delete(ctx context.Context, id string) error

	UpdatePreferences(ctx context.Context, id string, change preference.Change) (bool, error)
	Submit(ctx context.Context, id string) (*session.View, error)
	Regenerate(ctx context.Context, id string) (*session.View, error)
	Back(ctx context.Context, id string) (*session.View, error)
	DismissError(ctx context.Context, id string) (*session.View, error)

	StartPreparation(ctx context.Context, id string, listener walkthrough.Listener) (<-chan struct{}, error)
	ConfirmStep(ctx context.Context, id string) (<-chan struct{}, error)
	RequestExit(ctx context.Context, id string) error
	CancelExit(ctx context.Context, id string) error
	ConfirmExit(ctx context.Context, id string) (*session.View, error)
	Complete(ctx context.Context, id string) (*session.View, error)

	ExportRecipe(ctx context.Context, id string, format entity.ExportFormat) (*session.Export, error)
	SaveRecipe(ctx context.Context, id, owner string) (*entity.SavedRecipe, error)
	SavingEnabled() bool
}

// Sender is the part of tgbotapi.BotAPI the handlers use
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
