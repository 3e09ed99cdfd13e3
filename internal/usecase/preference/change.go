package preference

import (
	"fmt"

	"github.com/futig/remedy-companion/internal/entity"
)

type Action string

const (
	ActionToggleSymptom    Action = "toggle_symptom"
	ActionToggleIngredient Action = "toggle_ingredient"
	ActionSelectCategory   Action = "select_category"
	ActionSetPrepType      Action = "set_prep_type"
	ActionSetTime          Action = "set_time"
)

// Change is a single selection edit coming from a front end
type Change struct {
	Action Action `json:"action" validate:"required"`
	Value  string `json:"value" validate:"required"`
}

// Apply dispatches a change to the matching mutator. Only an unknown action is
// an error; rule violations stay silent no-ops.
func (s *Store) Apply(change Change) (bool, error) {
	switch change.Action {
	case ActionToggleSymptom:
		return s.ToggleSymptom(change.Value), nil
	case ActionToggleIngredient:
		return s.ToggleIngredient(change.Value), nil
	case ActionSelectCategory:
		return s.SelectCategory(change.Value), nil
	case ActionSetPrepType:
		return s.SetPrepType(entity.PrepType(change.Value)), nil
	case ActionSetTime:
		return s.SetTime(entity.TimeBand(change.Value)), nil
	default:
		return false, fmt.Errorf("%w: unknown preference action %q", entity.ErrInvalidParameter, change.Action)
	}
}
