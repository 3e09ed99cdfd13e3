package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/pkg/formatter"
	"github.com/futig/remedy-companion/internal/repository"
	"github.com/futig/remedy-companion/internal/usecase/flow"
	"github.com/futig/remedy-companion/internal/usecase/preference"
	"github.com/futig/remedy-companion/internal/usecase/walkthrough"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	mu    sync.Mutex
	calls int
	fail  bool
	block chan struct{}
}

func (g *stubGenerator) GenerateRecipeText(_ context.Context, req *entity.RecipeRequest) (*entity.Recipe, error) {
	if g.block != nil {
		<-g.block
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++

	if g.fail {
		return nil, &entity.GenerationError{Op: "generate recipe", Err: errors.New("model down")}
	}

	title := "Tisana al Miele"
	if req.Variation != nil {
		title = "Tisana allo Zenzero"
	}
	return &entity.Recipe{
		Title:           title,
		Tagline:         "Calda e dolce",
		TimeMinutes:     10,
		Difficulty:      entity.DifficultyMedium,
		Rating:          4.7,
		IngredientsList: []entity.IngredientAmount{{Name: "Miele", Amount: "1 cucchiaio"}, {Name: "Limone", Amount: "1/2"}},
		Benefits:        "Lenisce la gola.",
		Steps: []entity.RecipeStep{
			{Instruction: "Scalda l'acqua."},
			{Instruction: "Aggiungi il miele.", Tip: "Non bollire il miele."},
		},
	}, nil
}

func (g *stubGenerator) GenerateRecipeImage(context.Context, *entity.Recipe) string {
	return "https://img/remedy.png"
}

type mockSavedRepo struct {
	mock.Mock
}

func (m *mockSavedRepo) Save(ctx context.Context, saved *entity.SavedRecipe) error {
	return m.Called(ctx, saved).Error(0)
}

func (m *mockSavedRepo) Get(ctx context.Context, id string) (*entity.SavedRecipe, error) {
	args := m.Called(ctx, id)
	saved, _ := args.Get(0).(*entity.SavedRecipe)
	return saved, args.Error(1)
}

func (m *mockSavedRepo) Delete(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *mockSavedRepo) ListByOwner(ctx context.Context, owner string, limit int) ([]*entity.SavedRecipe, error) {
	args := m.Called(ctx, owner, limit)
	list, _ := args.Get(0).([]*entity.SavedRecipe)
	return list, args.Error(1)
}

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func newService(gen flow.Generator, saved SavedRecipeRepository) *Service {
	store := repository.NewCacheStore[*Session](time.Hour, time.Hour, entity.ErrSessionNotFound)
	svc := NewService(store, gen, catalog.Default(), saved, formatter.NewFactory(), Config{
		Delays: walkthrough.Delays{},
	})
	svc.sleep = noSleep
	return svc
}

func selectTosseMieleLimone(t *testing.T, svc *Service, id string) {
	t.Helper()
	ctx := context.Background()

	for _, c := range []preference.Change{
		{Action: preference.ActionToggleSymptom, Value: "Tosse"},
		{Action: preference.ActionToggleIngredient, Value: "Miele"},
		{Action: preference.ActionToggleIngredient, Value: "Limone"},
	} {
		changed, err := svc.UpdatePreferences(ctx, id, c)
		require.NoError(t, err)
		require.True(t, changed, "change %v", c)
	}
}

func createReadySession(t *testing.T, svc *Service) string {
	t.Helper()
	view, err := svc.Create(context.Background())
	require.NoError(t, err)
	selectTosseMieleLimone(t, svc, view.SessionID)
	return view.SessionID
}

func TestCreate(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)

	view, err := svc.Create(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, entity.ScreenSelection, view.Screen)
	assert.Equal(t, entity.DefaultPreferences(), view.Preferences)
	assert.False(t, view.Submittable)
	assert.Nil(t, view.Walkthrough)
}

func TestUnknownSession(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()

	_, err := svc.View(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	_, err = svc.UpdatePreferences(ctx, "missing", preference.Change{Action: preference.ActionSetTime, Value: "LONG"})
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), entity.ErrSessionNotFound)
}

func TestUpdatePreferences(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.Submittable)
	assert.Equal(t, []string{"Tosse"}, view.Preferences.Symptoms)

	changed, err := svc.UpdatePreferences(ctx, id, preference.Change{Action: preference.ActionToggleSymptom, Value: "Nausea"})
	require.NoError(t, err)
	assert.False(t, changed, "a symptom from another category is ignored")

	_, err = svc.UpdatePreferences(ctx, id, preference.Change{Action: "shake", Value: "x"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestSubmitToPreview(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	view, err := svc.Submit(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, entity.ScreenPreview, view.Screen)
	require.NotNil(t, view.Recipe)
	assert.GreaterOrEqual(t, view.Recipe.TotalSteps(), 1)
	assert.Equal(t, "https://img/remedy.png", view.Recipe.ImageURL)

	_, err = svc.UpdatePreferences(ctx, id, preference.Change{Action: preference.ActionSetTime, Value: "LONG"})
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
}

func TestSubmitNotSubmittable(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	view, err := svc.Create(context.Background())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), view.SessionID)
	assert.ErrorIs(t, err, entity.ErrPreferencesNotSubmittable)
}

func TestSubmitFailure(t *testing.T) {
	svc := newService(&stubGenerator{fail: true}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	view, err := svc.Submit(ctx, id)
	assert.ErrorIs(t, err, entity.ErrTextGeneration)
	assert.Equal(t, entity.ScreenSelection, view.Screen)
	assert.Equal(t, flow.ErrMsgGeneration, view.Error)

	view, err = svc.DismissError(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Error)
}

func TestSubmitAsync(t *testing.T) {
	gen := &stubGenerator{block: make(chan struct{})}
	svc := newService(gen, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	settled := make(chan *View, 1)
	view, err := svc.SubmitAsync(ctx, id, func(_ context.Context, v *View, err error) {
		assert.NoError(t, err)
		settled <- v
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenLoading, view.Screen)
	assert.Equal(t, flow.LoadingMessages[0], view.LoadingMessage)

	close(gen.block)
	final := <-settled
	assert.Equal(t, entity.ScreenPreview, final.Screen)
	assert.Equal(t, "Tisana al Miele", final.Recipe.Title)
}

func TestLoadingShowsSubmittedPreferences(t *testing.T) {
	gen := &stubGenerator{block: make(chan struct{})}
	svc := newService(gen, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	settled := make(chan *View, 1)
	_, err := svc.SubmitAsync(ctx, id, func(_ context.Context, v *View, _ error) {
		settled <- v
	})
	require.NoError(t, err)

	_, err = svc.UpdatePreferences(ctx, id, preference.Change{Action: preference.ActionToggleIngredient, Value: "Zenzero"})
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	// a store edit that slipped past the screen check must not leak into the view
	s, err := svc.get(ctx, id)
	require.NoError(t, err)
	require.True(t, s.prefs.ToggleIngredient("Zenzero"))

	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenLoading, view.Screen)
	assert.Equal(t, []string{"Miele", "Limone"}, view.Preferences.Ingredients)

	close(gen.block)
	final := <-settled
	assert.Equal(t, entity.ScreenPreview, final.Screen)
	assert.Equal(t, []string{"Miele", "Limone"}, final.Preferences.Ingredients)
}

func TestRegenerate(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	_, err := svc.Submit(ctx, id)
	require.NoError(t, err)

	view, err := svc.Regenerate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tisana allo Zenzero", view.Recipe.Title)

	settled := make(chan *View, 1)
	_, err = svc.RegenerateAsync(ctx, id, func(_ context.Context, v *View, _ error) { settled <- v })
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenPreview, (<-settled).Screen)
}

func TestBack(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	_, err := svc.Submit(ctx, id)
	require.NoError(t, err)

	view, err := svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenSelection, view.Screen)
	assert.Nil(t, view.Recipe)
	assert.True(t, view.Submittable, "selection survives going back")
}

func TestPreparationWalkthrough(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	_, err := svc.Submit(ctx, id)
	require.NoError(t, err)

	done, err := svc.StartPreparation(ctx, id, nil)
	require.NoError(t, err)
	<-done

	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenPreparation, view.Screen)
	require.NotNil(t, view.Walkthrough)
	assert.Equal(t, 0, view.Walkthrough.Cursor)
	assert.True(t, view.Walkthrough.CanConfirm())

	for i := 0; i < 2; i++ {
		done, err = svc.ConfirmStep(ctx, id)
		require.NoError(t, err)
		<-done
	}

	snap, err := svc.WalkthroughSnapshot(ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.Finished)
	assert.Equal(t, walkthrough.MsgEnjoy, snap.Messages[len(snap.Messages)-1].Text)

	_, err = svc.ConfirmStep(ctx, id)
	assert.ErrorIs(t, err, entity.ErrWalkthroughFinished)

	view, err = svc.Complete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenSelection, view.Screen)
	assert.Nil(t, view.Recipe)
	assert.Equal(t, entity.DefaultPreferences(), view.Preferences)
	assert.Nil(t, view.Walkthrough)

	_, err = svc.WalkthroughSnapshot(ctx, id)
	assert.ErrorIs(t, err, entity.ErrWalkthroughNotActive)
}

func TestPreparationExit(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	_, err := svc.Submit(ctx, id)
	require.NoError(t, err)

	done, err := svc.StartPreparation(ctx, id, nil)
	require.NoError(t, err)
	<-done

	_, err = svc.ConfirmExit(ctx, id)
	assert.ErrorIs(t, err, entity.ErrExitNotRequested)

	require.NoError(t, svc.RequestExit(ctx, id))
	require.NoError(t, svc.CancelExit(ctx, id))

	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenPreparation, view.Screen)

	require.NoError(t, svc.RequestExit(ctx, id))
	view, err = svc.ConfirmExit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ScreenPreview, view.Screen)
	assert.NotNil(t, view.Recipe)
	assert.Nil(t, view.Walkthrough)

	// a new preparation starts from the first step again
	done, err = svc.StartPreparation(ctx, id, nil)
	require.NoError(t, err)
	<-done

	snap, err := svc.WalkthroughSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Cursor)
	assert.Len(t, snap.Messages, 2)
}

func TestStartPreparationWithoutRecipe(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	view, err := svc.Create(context.Background())
	require.NoError(t, err)

	_, err = svc.StartPreparation(context.Background(), view.SessionID, nil)
	assert.ErrorIs(t, err, entity.ErrNoRecipe)

	_, err = svc.ConfirmStep(context.Background(), view.SessionID)
	assert.ErrorIs(t, err, entity.ErrWalkthroughNotActive)
}

func TestExportRecipe(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	_, err := svc.ExportRecipe(ctx, id, entity.FormatMarkdown)
	assert.ErrorIs(t, err, entity.ErrNoRecipe)

	_, err = svc.Submit(ctx, id)
	require.NoError(t, err)

	export, err := svc.ExportRecipe(ctx, id, entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "tisana-al-miele.md", export.FileName)
	assert.Contains(t, string(export.Data), "# Tisana al Miele")
	assert.Contains(t, export.ContentType, "text/markdown")
}

func TestSaveRecipeDisabled(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)

	_, err := svc.SaveRecipe(context.Background(), "any", "owner")
	assert.ErrorIs(t, err, entity.ErrSavingDisabled)

	_, err = svc.ListSavedRecipes(context.Background(), "owner")
	assert.ErrorIs(t, err, entity.ErrSavingDisabled)

	_, err = svc.GetSavedRecipe(context.Background(), "owner", "any")
	assert.ErrorIs(t, err, entity.ErrSavingDisabled)

	assert.ErrorIs(t, svc.DeleteSavedRecipe(context.Background(), "owner", "any"), entity.ErrSavingDisabled)
	assert.False(t, svc.SavingEnabled())
}

func TestSaveRecipe(t *testing.T) {
	repo := &mockSavedRepo{}
	svc := newService(&stubGenerator{}, repo)
	ctx := context.Background()
	id := createReadySession(t, svc)

	_, err := svc.Submit(ctx, id)
	require.NoError(t, err)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(s *entity.SavedRecipe) bool {
		return s.Owner == "tg:42" &&
			s.Recipe.Title == "Tisana al Miele" &&
			s.Prefs.Symptoms[0] == "Tosse" &&
			s.ID != ""
	})).Return(nil).Once()

	saved, err := svc.SaveRecipe(ctx, id, " tg:42 ")
	require.NoError(t, err)
	assert.Equal(t, "tg:42", saved.Owner)

	_, err = svc.SaveRecipe(ctx, id, "  ")
	assert.ErrorIs(t, err, entity.ErrMissingField)

	repo.On("ListByOwner", mock.Anything, "tg:42", savedRecipesLimit).Return([]*entity.SavedRecipe{saved}, nil).Once()
	list, err := svc.ListSavedRecipes(ctx, "tg:42")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	repo.AssertExpectations(t)
}

func TestGetSavedRecipeChecksOwner(t *testing.T) {
	repo := &mockSavedRepo{}
	svc := newService(&stubGenerator{}, repo)
	ctx := context.Background()

	saved := &entity.SavedRecipe{ID: "r1", Owner: "tg:42", Recipe: entity.Recipe{Title: "Tisana"}}
	repo.On("Get", mock.Anything, "r1").Return(saved, nil).Twice()
	repo.On("Get", mock.Anything, "missing").Return(nil, entity.ErrRecipeNotFound).Once()

	got, err := svc.GetSavedRecipe(ctx, " tg:42 ", "r1")
	require.NoError(t, err)
	assert.Equal(t, "Tisana", got.Recipe.Title)

	_, err = svc.GetSavedRecipe(ctx, "tg:7", "r1")
	assert.ErrorIs(t, err, entity.ErrRecipeNotFound)

	_, err = svc.GetSavedRecipe(ctx, "tg:42", "missing")
	assert.ErrorIs(t, err, entity.ErrRecipeNotFound)

	_, err = svc.GetSavedRecipe(ctx, "", "r1")
	assert.ErrorIs(t, err, entity.ErrMissingField)

	repo.AssertExpectations(t)
}

func TestDeleteSavedRecipe(t *testing.T) {
	repo := &mockSavedRepo{}
	svc := newService(&stubGenerator{}, repo)
	ctx := context.Background()

	repo.On("Delete", mock.Anything, "tg:42", "r1").Return(nil).Once()
	repo.On("Delete", mock.Anything, "tg:42", "r2").Return(entity.ErrRecipeNotFound).Once()

	require.NoError(t, svc.DeleteSavedRecipe(ctx, "tg:42", "r1"))
	assert.ErrorIs(t, svc.DeleteSavedRecipe(ctx, "tg:42", "r2"), entity.ErrRecipeNotFound)
	assert.ErrorIs(t, svc.DeleteSavedRecipe(ctx, " ", "r1"), entity.ErrMissingField)

	repo.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	svc := newService(&stubGenerator{}, nil)
	ctx := context.Background()
	id := createReadySession(t, svc)

	require.NoError(t, svc.Delete(ctx, id))

	_, err := svc.View(ctx, id)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestViewToDTO(t *testing.T) {
	snap := walkthrough.Snapshot{
		Cursor:     1,
		TotalSteps: 3,
		Messages:   []entity.ChatMessage{{Origin: entity.OriginApp, Text: "Ciao"}},
	}
	v := &View{SessionID: "s", Screen: entity.ScreenPreparation, Walkthrough: &snap}

	dto := v.ToDTO()
	assert.Equal(t, "s", dto.ID)
	require.NotNil(t, dto.Walkthrough)
	assert.Equal(t, "Passaggio 2 di 3", dto.Walkthrough.Progress)
	assert.True(t, dto.Walkthrough.CanConfirm)
}
