package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid screen transition")
	ErrNoRecipe          = errors.New("no recipe in session")

	// Preference errors
	ErrPreferencesNotSubmittable = errors.New("preferences are not submittable")

	// Generation errors
	ErrTextGeneration = errors.New("recipe text generation failed")
	ErrEmptyResponse  = errors.New("empty response from generator")

	// Walkthrough errors
	ErrAdvanceInProgress    = errors.New("walkthrough advance in progress")
	ErrWalkthroughFinished  = errors.New("walkthrough already finished")
	ErrWalkthroughNotActive = errors.New("walkthrough is not active")
	ErrExitNotRequested     = errors.New("exit was not requested")

	// Saved recipes
	ErrSavingDisabled  = errors.New("recipe saving is disabled")
	ErrRecipeNotFound  = errors.New("saved recipe not found")
	ErrUnsupportedFile = errors.New("unsupported export format")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ValidationError is a local validation failure, never sent to the generator
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// GenerationError wraps any failure of the text generation path.
// It always matches ErrTextGeneration with errors.Is.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrTextGeneration, e.Err}
}

// TransitionError describes a rejected screen transition
func TransitionError(from ScreenState, action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
}
