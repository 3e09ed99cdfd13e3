package session

import (
	"sync"
	"time"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/usecase/flow"
	"github.com/futig/remedy-companion/internal/usecase/preference"
	"github.com/futig/remedy-companion/internal/usecase/walkthrough"
)

// Session is the context of one user: selection, screen flow and the
// walkthrough of the recipe being prepared.
type Session struct {
	ID        string
	CreatedAt time.Time

	prefs *preference.Store
	flow  *flow.Controller

	// editMu orders preference edits against leaving and re-entering SELECTION
	editMu sync.Mutex

	mu     sync.Mutex
	engine *walkthrough.Engine
}

func newSession(id string, createdAt time.Time, c *catalog.Catalog, gen flow.Generator) *Session {
	return &Session{
		ID:        id,
		CreatedAt: createdAt,
		prefs:     preference.NewStore(c),
		flow:      flow.NewController(gen),
	}
}

// applyPreference edits the selection only while SELECTION is on screen
func (s *Session) applyPreference(change preference.Change) (bool, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	if screen := s.flow.View().Screen; screen != entity.ScreenSelection {
		return false, entity.TransitionError(screen, "update_preferences")
	}
	return s.prefs.Apply(change)
}

// prepareSubmit snapshots the selection and moves to LOADING in one step
func (s *Session) prepareSubmit() (*flow.Job, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	return s.flow.PrepareSubmit(s.prefs.Snapshot())
}

// complete finishes the flow and clears the selection together
func (s *Session) complete() error {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	if err := s.flow.Complete(); err != nil {
		return err
	}
	s.prefs.Reset()
	return nil
}

func (s *Session) walkthrough() *walkthrough.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine
}

// swapWalkthrough installs e and closes the engine it replaces
func (s *Session) swapWalkthrough(e *walkthrough.Engine) {
	s.mu.Lock()
	old := s.engine
	s.engine = e
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// Close stops any running walkthrough
func (s *Session) Close() {
	s.swapWalkthrough(nil)
}
