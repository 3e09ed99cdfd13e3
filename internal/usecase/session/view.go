package session

import (
	"time"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/usecase/flow"
	"github.com/futig/remedy-companion/internal/usecase/walkthrough"
)

// View is what a front end needs to render the current screen
type View struct {
	SessionID      string
	CreatedAt      time.Time
	Screen         entity.ScreenState
	Preferences    entity.Preferences
	Submittable    bool
	Recipe         *entity.Recipe
	Error          string
	Regenerating   bool
	LoadingMessage string
	Walkthrough    *walkthrough.Snapshot
}

func (svc *Service) buildView(s *Session) *View {
	fv := s.flow.View()

	v := &View{
		SessionID:    s.ID,
		CreatedAt:    s.CreatedAt,
		Screen:       fv.Screen,
		Preferences:  s.prefs.Snapshot(),
		Submittable:  s.prefs.IsSubmittable(),
		Recipe:       fv.Recipe,
		Error:        fv.Error,
		Regenerating: fv.Regenerating,
	}
	if fv.Screen != entity.ScreenSelection {
		// the recipe on screen was built from these
		v.Preferences = fv.Preferences
	}

	if fv.Screen == entity.ScreenLoading {
		v.LoadingMessage = flow.LoadingMessageEvery(svc.now().Sub(fv.LoadingSince), svc.cfg.LoadingInterval)
	}

	if e := s.walkthrough(); e != nil && fv.Screen == entity.ScreenPreparation {
		snap := e.Snapshot()
		v.Walkthrough = &snap
	}

	return v
}

// ToDTO converts the view to its wire form
func (v *View) ToDTO() *entity.RemedySessionDTO {
	dto := &entity.RemedySessionDTO{
		ID:             v.SessionID,
		CreatedAt:      v.CreatedAt,
		Screen:         v.Screen,
		Preferences:    v.Preferences,
		Submittable:    v.Submittable,
		Recipe:         v.Recipe,
		Error:          v.Error,
		Regenerating:   v.Regenerating,
		LoadingMessage: v.LoadingMessage,
	}
	if v.Walkthrough != nil {
		dto.Walkthrough = WalkthroughDTO(*v.Walkthrough)
	}
	return dto
}

func WalkthroughDTO(snap walkthrough.Snapshot) *entity.WalkthroughDTO {
	return &entity.WalkthroughDTO{
		Messages:    snap.Messages,
		CurrentStep: snap.Cursor,
		TotalSteps:  snap.TotalSteps,
		Progress:    snap.Progress(),
		Composing:   snap.Composing,
		CanConfirm:  snap.CanConfirm(),
		Finished:    snap.Finished,
		ExitPending: snap.ExitPending,
	}
}
