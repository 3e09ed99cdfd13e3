package entity

// CallbackEventType represents the type of callback event
type CallbackEventType string

const (
	CallbackEventTypeRecipeReady CallbackEventType = "recipeReady"
	CallbackEventTypeError       CallbackEventType = "error"
)

// CallbackEvent represents a callback event
type CallbackEvent struct {
	Event     CallbackEventType `json:"event"`
	SessionID string            `json:"session_id"`
	RequestID string            `json:"request_id,omitempty"`
	Timestamp string            `json:"timestamp"` // ISO-8601 UTC
	Data      any               `json:"data"`
}

// CallbackErrorData represents data for error event
type CallbackErrorData struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
