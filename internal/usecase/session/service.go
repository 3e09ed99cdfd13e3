package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/pkg/formatter"
	"github.com/futig/remedy-companion/internal/pkg/logger"
	"github.com/futig/remedy-companion/internal/usecase/flow"
	"github.com/futig/remedy-companion/internal/usecase/preference"
	"github.com/futig/remedy-companion/internal/usecase/walkthrough"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const savedRecipesLimit = 50

// Config tunes the per-session components
type Config struct {
	Delays          walkthrough.Delays
	LoadingInterval time.Duration
}

// DoneFunc receives the settled view of an asynchronous generation
type DoneFunc func(ctx context.Context, view *View, err error)

// Service owns every live session and routes front end actions to it
type Service struct {
	store      Store
	gen        flow.Generator
	catalog    *catalog.Catalog
	saved      SavedRecipeRepository
	formatters FormatterFactory
	cfg        Config

	sleep walkthrough.SleepFunc
	now   func() time.Time
}

// NewService builds the session service. saved may be nil when saving is disabled.
func NewService(
	store Store,
	gen flow.Generator,
	c *catalog.Catalog,
	saved SavedRecipeRepository,
	formatters FormatterFactory,
	cfg Config,
) *Service {
	if cfg.LoadingInterval <= 0 {
		cfg.LoadingInterval = flow.LoadingMessageInterval
	}
	return &Service{
		store:      store,
		gen:        gen,
		catalog:    c,
		saved:      saved,
		formatters: formatters,
		cfg:        cfg,
		sleep:      walkthrough.Sleep,
		now:        time.Now,
	}
}

func (svc *Service) Catalog() *catalog.Catalog {
	return svc.catalog
}

// SavingEnabled reports whether SaveRecipe can succeed
func (svc *Service) SavingEnabled() bool {
	return svc.saved != nil
}

// Create opens a session with default preferences on the selection screen
func (svc *Service) Create(ctx context.Context) (*View, error) {
	s := newSession(uuid.NewString(), svc.now(), svc.catalog, svc.gen)

	if err := svc.store.Set(ctx, s.ID, s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	ctxzap.Info(logger.WithSession(ctx, s.ID), "session created")

	return svc.buildView(s), nil
}

func (svc *Service) get(ctx context.Context, id string) (*Session, error) {
	s, err := svc.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return s, nil
}

func (svc *Service) View(ctx context.Context, id string) (*View, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return svc.buildView(s), nil
}

// Delete drops the session and stops its walkthrough
func (svc *Service) Delete(ctx context.Context, id string) error {
	s, err := svc.get(ctx, id)
	if err != nil {
		return err
	}

	s.Close()
	if err := svc.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	ctxzap.Info(logger.WithSession(ctx, id), "session deleted")
	return nil
}

// UpdatePreferences applies one selection edit. Rule violations are
// reported as changed=false, not as errors.
func (svc *Service) UpdatePreferences(ctx context.Context, id string, change preference.Change) (bool, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return false, err
	}

	changed, err := s.applyPreference(change)
	if err != nil {
		return false, err
	}

	ctxzap.Debug(logger.WithSession(ctx, id), "preferences updated",
		zap.String("change_action", string(change.Action)),
		zap.String("value", change.Value),
		zap.Bool("changed", changed),
	)

	return changed, nil
}

// Submit generates a recipe for the current selection and waits for it
func (svc *Service) Submit(ctx context.Context, id string) (*View, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithSession(ctx, id)
	job, err := s.prepareSubmit()
	if err != nil {
		return svc.buildView(s), err
	}
	if err := job.Run(ctx); err != nil {
		return svc.buildView(s), err
	}
	return svc.buildView(s), nil
}

// SubmitAsync moves to LOADING and generates in the background. done is
// called once the session settles.
func (svc *Service) SubmitAsync(ctx context.Context, id string, done DoneFunc) (*View, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	job, err := s.prepareSubmit()
	if err != nil {
		return nil, err
	}

	svc.runAsync(ctx, s, job, done)
	return svc.buildView(s), nil
}

// Regenerate asks for a different recipe with the same selection
func (svc *Service) Regenerate(ctx context.Context, id string) (*View, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithSession(ctx, id)
	if err := s.flow.Regenerate(ctx); err != nil {
		return svc.buildView(s), err
	}
	return svc.buildView(s), nil
}

func (svc *Service) RegenerateAsync(ctx context.Context, id string, done DoneFunc) (*View, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	job, err := s.flow.PrepareRegenerate()
	if err != nil {
		return nil, err
	}

	svc.runAsync(ctx, s, job, done)
	return svc.buildView(s), nil
}

// runAsync outlives the caller's request but keeps its logger
func (svc *Service) runAsync(ctx context.Context, s *Session, job *flow.Job, done DoneFunc) {
	bgCtx := logger.WithSession(context.WithoutCancel(ctx), s.ID)

	go func() {
		err := job.Run(bgCtx)
		if err != nil {
			ctxzap.Warn(bgCtx, "background generation failed", zap.Error(err))
		}
		if done != nil {
			done(bgCtx, svc.buildView(s), err)
		}
	}()
}

// Back leaves the preview and discards the recipe
func (svc *Service) Back(ctx context.Context, id string) (*View, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.flow.Back(); err != nil {
		return nil, err
	}
	return svc.buildView(s), nil
}

func (svc *Service) DismissError(ctx context.Context, id string) (*View, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.flow.DismissError()
	return svc.buildView(s), nil
}

// StartPreparation enters the walkthrough and starts the greeting in the
// background. listener may be nil.
func (svc *Service) StartPreparation(ctx context.Context, id string, listener walkthrough.Listener) (<-chan struct{}, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe, err := s.flow.Recipe()
	if err != nil {
		return nil, err
	}
	if err := s.flow.Start(); err != nil {
		return nil, err
	}

	opts := []walkthrough.Option{
		walkthrough.WithDelays(svc.cfg.Delays),
		walkthrough.WithSleep(svc.sleep),
	}
	if listener != nil {
		opts = append(opts, walkthrough.WithListener(listener))
	}
	engine := walkthrough.NewEngine(recipe, opts...)
	s.swapWalkthrough(engine)

	done, err := engine.StartAsync(logger.WithSession(ctx, id))
	if err != nil {
		s.swapWalkthrough(nil)
		_ = s.flow.ExitPreparation()
		return nil, err
	}

	ctxzap.Info(logger.WithSession(ctx, id), "preparation started",
		zap.String("title", recipe.Title),
		zap.Int("steps", recipe.TotalSteps()),
	)

	return done, nil
}

func (svc *Service) activeWalkthrough(ctx context.Context, id string) (*walkthrough.Engine, *Session, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	e := s.walkthrough()
	if e == nil {
		return nil, nil, entity.ErrWalkthroughNotActive
	}
	return e, s, nil
}

// ConfirmStep is the user's "Fatto!"; the next step arrives in the background
func (svc *Service) ConfirmStep(ctx context.Context, id string) (<-chan struct{}, error) {
	e, _, err := svc.activeWalkthrough(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.ConfirmAsync(logger.WithSession(ctx, id))
}

func (svc *Service) WalkthroughSnapshot(ctx context.Context, id string) (walkthrough.Snapshot, error) {
	e, _, err := svc.activeWalkthrough(ctx, id)
	if err != nil {
		return walkthrough.Snapshot{}, err
	}
	return e.Snapshot(), nil
}

func (svc *Service) RequestExit(ctx context.Context, id string) error {
	e, _, err := svc.activeWalkthrough(ctx, id)
	if err != nil {
		return err
	}
	return e.RequestExit()
}

func (svc *Service) CancelExit(ctx context.Context, id string) error {
	e, _, err := svc.activeWalkthrough(ctx, id)
	if err != nil {
		return err
	}
	return e.CancelExit()
}

// ConfirmExit abandons the walkthrough and returns to the preview
func (svc *Service) ConfirmExit(ctx context.Context, id string) (*View, error) {
	e, s, err := svc.activeWalkthrough(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.ConfirmExit(); err != nil {
		return nil, err
	}

	s.swapWalkthrough(nil)
	if err := s.flow.ExitPreparation(); err != nil {
		return nil, err
	}

	ctxzap.Info(logger.WithSession(ctx, id), "preparation abandoned")
	return svc.buildView(s), nil
}

// Complete ends the session flow and starts over with a fresh selection
func (svc *Service) Complete(ctx context.Context, id string) (*View, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.complete(); err != nil {
		return nil, err
	}

	s.swapWalkthrough(nil)

	ctxzap.Info(logger.WithSession(ctx, id), "session completed")
	return svc.buildView(s), nil
}

// Export is a rendered recipe file
type Export struct {
	Data        []byte
	ContentType string
	FileName    string
}

func (svc *Service) ExportRecipe(ctx context.Context, id string, format entity.ExportFormat) (*Export, error) {
	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe, err := s.flow.Recipe()
	if err != nil {
		return nil, err
	}

	f, err := svc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(recipe)
	if err != nil {
		return nil, fmt.Errorf("format recipe: %w", err)
	}

	return &Export{
		Data:        data,
		ContentType: f.ContentType(),
		FileName:    formatter.FileName(recipe, f),
	}, nil
}

// SaveRecipe keeps the current recipe with its preferences for owner
func (svc *Service) SaveRecipe(ctx context.Context, id, owner string) (*entity.SavedRecipe, error) {
	if svc.saved == nil {
		return nil, entity.ErrSavingDisabled
	}

	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, &entity.ValidationError{Field: "owner", Err: entity.ErrMissingField}
	}

	s, err := svc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe, err := s.flow.Recipe()
	if err != nil {
		return nil, err
	}

	saved := &entity.SavedRecipe{
		ID:     uuid.NewString(),
		Owner:  owner,
		Recipe: *recipe,
		Prefs:  s.flow.View().Preferences,
	}
	if err := svc.saved.Save(ctx, saved); err != nil {
		return nil, fmt.Errorf("save recipe: %w", err)
	}

	ctxzap.Info(logger.WithSession(ctx, id), "recipe saved",
		zap.String("saved_id", saved.ID),
		zap.String("title", recipe.Title),
	)

	return saved, nil
}

func (svc *Service) ListSavedRecipes(ctx context.Context, owner string) ([]*entity.SavedRecipe, error) {
	if svc.saved == nil {
		return nil, entity.ErrSavingDisabled
	}

	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, &entity.ValidationError{Field: "owner", Err: entity.ErrMissingField}
	}

	recipes, err := svc.saved.ListByOwner(ctx, owner, savedRecipesLimit)
	if err != nil {
		return nil, fmt.Errorf("list saved recipes: %w", err)
	}
	return recipes, nil
}

// GetSavedRecipe returns one of owner's saved recipes. Recipes of other owners are reported as missing.
func (svc *Service) GetSavedRecipe(ctx context.Context, owner, savedID string) (*entity.SavedRecipe, error) {
	if svc.saved == nil {
		return nil, entity.ErrSavingDisabled
	}

	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, &entity.ValidationError{Field: "owner", Err: entity.ErrMissingField}
	}

	saved, err := svc.saved.Get(ctx, savedID)
	if err != nil {
		return nil, fmt.Errorf("get saved recipe: %w", err)
	}
	if saved.Owner != owner {
		return nil, entity.ErrRecipeNotFound
	}
	return saved, nil
}

func (svc *Service) DeleteSavedRecipe(ctx context.Context, owner, savedID string) error {
	if svc.saved == nil {
		return entity.ErrSavingDisabled
	}

	owner = strings.TrimSpace(owner)
	if owner == "" {
		return &entity.ValidationError{Field: "owner", Err: entity.ErrMissingField}
	}

	if err := svc.saved.Delete(ctx, owner, savedID); err != nil {
		return fmt.Errorf("delete saved recipe: %w", err)
	}

	ctxzap.Info(ctx, "saved recipe deleted", zap.String("saved_id", savedID))
	return nil
}
