// Package flow drives the screen state machine of one remedy session.
package flow

import (
	"context"
	"sync"
	"time"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/usecase/prompt"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	ErrMsgGeneration   = "Ops! Qualcosa è andato storto. Riprova."
	ErrMsgRegeneration = "Non sono riuscito a creare una nuova ricetta. Riprova."
)

type Generator interface {
	GenerateRecipeText(ctx context.Context, req *entity.RecipeRequest) (*entity.Recipe, error)
	GenerateRecipeImage(ctx context.Context, recipe *entity.Recipe) string
}

// View is an immutable snapshot of the session screen
type View struct {
	Screen       entity.ScreenState
	Preferences  entity.Preferences
	Recipe       *entity.Recipe
	Error        string
	LoadingSince time.Time
	Regenerating bool
}

type Controller struct {
	mu  sync.Mutex
	gen Generator
	now func() time.Time

	screen       entity.ScreenState
	prefs        entity.Preferences
	recipe       *entity.Recipe
	errMsg       string
	loadingSince time.Time
	regenerating bool
}

func NewController(gen Generator) *Controller {
	return &Controller{
		gen:    gen,
		now:    time.Now,
		screen: entity.ScreenSelection,
		prefs:  entity.DefaultPreferences(),
	}
}

// Job is an accepted generation request. The controller is already in
// LOADING when a Job is handed out.
type Job struct {
	c          *Controller
	req        *entity.RecipeRequest
	regenerate bool
}

// PrepareSubmit validates prefs and moves SELECTION -> LOADING
func (c *Controller) PrepareSubmit(prefs entity.Preferences) (*Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != entity.ScreenSelection {
		return nil, entity.TransitionError(c.screen, "submit")
	}

	req, err := prompt.BuildRequest(prefs, nil)
	if err != nil {
		return nil, err
	}

	c.prefs = prefs.Clone()
	c.errMsg = ""
	c.recipe = nil
	c.enterLoadingLocked(false)

	return &Job{c: c, req: req}, nil
}

// PrepareRegenerate moves PREVIEW -> LOADING keeping the current recipe
func (c *Controller) PrepareRegenerate() (*Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != entity.ScreenPreview {
		return nil, entity.TransitionError(c.screen, "regenerate")
	}

	req, err := prompt.BuildRequest(c.prefs, c.recipe)
	if err != nil {
		return nil, err
	}

	c.errMsg = ""
	c.enterLoadingLocked(true)

	return &Job{c: c, req: req, regenerate: true}, nil
}

func (c *Controller) enterLoadingLocked(regenerate bool) {
	c.screen = entity.ScreenLoading
	c.loadingSince = c.now()
	c.regenerating = regenerate
}

// Run generates text then image and settles the controller in PREVIEW or
// back where the failure rules say.
func (j *Job) Run(ctx context.Context) error {
	c := j.c

	recipe, err := c.gen.GenerateRecipeText(ctx, j.req)
	if err != nil {
		c.failGeneration(ctx, j.regenerate, err)
		return err
	}

	recipe.ImageURL = c.gen.GenerateRecipeImage(ctx, recipe)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.recipe = recipe
	c.screen = entity.ScreenPreview
	c.regenerating = false

	ctxzap.Info(ctx, "recipe ready", zap.String("title", recipe.Title), zap.Bool("regenerated", j.regenerate))

	return nil
}

func (c *Controller) failGeneration(ctx context.Context, regenerate bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.regenerating = false

	if regenerate {
		ctxzap.Warn(ctx, "regeneration failed, keeping previous recipe", zap.Error(err))
		c.errMsg = ErrMsgRegeneration
		if c.recipe != nil {
			c.screen = entity.ScreenPreview
		} else {
			c.screen = entity.ScreenSelection
		}
		return
	}

	ctxzap.Warn(ctx, "generation failed, back to selection", zap.Error(err))
	c.errMsg = ErrMsgGeneration
	c.recipe = nil
	c.screen = entity.ScreenSelection
}

// Submit is PrepareSubmit followed by Run
func (c *Controller) Submit(ctx context.Context, prefs entity.Preferences) error {
	job, err := c.PrepareSubmit(prefs)
	if err != nil {
		return err
	}
	return job.Run(ctx)
}

// Regenerate is PrepareRegenerate followed by Run
func (c *Controller) Regenerate(ctx context.Context) error {
	job, err := c.PrepareRegenerate()
	if err != nil {
		return err
	}
	return job.Run(ctx)
}

// Back discards the previewed recipe
func (c *Controller) Back() error {
	return c.transition(entity.ScreenPreview, entity.ScreenSelection, "back", func() {
		c.recipe = nil
	})
}

// Start enters the preparation walkthrough
func (c *Controller) Start() error {
	return c.transition(entity.ScreenPreview, entity.ScreenPreparation, "start", nil)
}

// ExitPreparation returns to the preview keeping the recipe
func (c *Controller) ExitPreparation() error {
	return c.transition(entity.ScreenPreparation, entity.ScreenPreview, "exit_preparation", nil)
}

// Complete finishes the session and resets it to a fresh selection
func (c *Controller) Complete() error {
	return c.transition(entity.ScreenPreparation, entity.ScreenSelection, "complete", func() {
		c.recipe = nil
		c.prefs = entity.DefaultPreferences()
	})
}

func (c *Controller) transition(from, to entity.ScreenState, action string, effect func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != from {
		return entity.TransitionError(c.screen, action)
	}
	c.errMsg = ""
	if effect != nil {
		effect()
	}
	c.screen = to
	return nil
}

func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errMsg = ""
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Screen:       c.screen,
		Preferences:  c.prefs.Clone(),
		Recipe:       c.recipe.Clone(),
		Error:        c.errMsg,
		LoadingSince: c.loadingSince,
		Regenerating: c.regenerating,
	}
}

// Recipe returns a copy of the current recipe
func (c *Controller) Recipe() (*entity.Recipe, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recipe == nil {
		return nil, entity.ErrNoRecipe
	}
	return c.recipe.Clone(), nil
}
