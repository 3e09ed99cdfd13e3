package entity

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RemedySessionDTO is the wire form of a session view
type RemedySessionDTO struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	Screen         ScreenState     `json:"screen"`
	Preferences    Preferences     `json:"preferences"`
	Submittable    bool            `json:"submittable"`
	Recipe         *Recipe         `json:"recipe,omitempty"`
	Error          string          `json:"error,omitempty"`
	Regenerating   bool            `json:"regenerating"`
	LoadingMessage string          `json:"loading_message,omitempty"`
	Walkthrough    *WalkthroughDTO `json:"walkthrough,omitempty"`
}

// WalkthroughDTO is the preparation transcript and its controls
type WalkthroughDTO struct {
	Messages    []ChatMessage `json:"messages"`
	CurrentStep int           `json:"current_step"`
	TotalSteps  int           `json:"total_steps"`
	Progress    string        `json:"progress"`
	Composing   bool          `json:"composing"`
	CanConfirm  bool          `json:"can_confirm"`
	Finished    bool          `json:"finished"`
	ExitPending bool          `json:"exit_pending"`
}

// PreferenceChangeResponse reports whether an edit took effect
type PreferenceChangeResponse struct {
	Changed bool              `json:"changed"`
	Session *RemedySessionDTO `json:"session"`
}

// GenerateRequest is the body of submit and regenerate
type GenerateRequest struct {
	CallbackURL string `json:"callback_url,omitempty" validate:"omitempty,url"`
}

// SaveRecipeRequest is the body of recipe/save
type SaveRecipeRequest struct {
	Owner string `json:"owner" validate:"required,max=128"`
}

// CatalogDTO lists every selectable option
type CatalogDTO struct {
	Symptoms    []SymptomCategory    `json:"symptoms"`
	Ingredients []IngredientCategory `json:"ingredients"`
	PrepTypes   []PrepOption         `json:"prep_types"`
	Times       []TimeOption         `json:"times"`
}
