package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions
const (
	ActionCommand    = "act"
	ActionMenu       = "menu"
	ActionSymptom    = "sym"
	ActionPrepType   = "prep"
	ActionTime       = "time"
	ActionCategory   = "icat"
	ActionSelectAll  = "iall"
	ActionIngredient = "ing"
	ActionExit       = "exit"
	ActionConfirm    = "confirm"
	ActionDownload   = "dl"
)

// Values of ActionCommand
const (
	CmdStart      = "start"
	CmdCreate     = "create"
	CmdRegenerate = "regen"
	CmdBack       = "back"
	CmdPrepare    = "prepare"
	CmdDone       = "done"
	CmdExit       = "exit"
	CmdNewRemedy  = "new"
	CmdSave       = "save"
	CmdDismiss    = "dismiss"
)

// Values of ActionMenu
const (
	MenuMain        = "main"
	MenuSymptoms    = "symptoms"
	MenuPrepType    = "prep"
	MenuTime        = "time"
	MenuIngredients = "ingredients"
)

// Values of ActionExit and ActionConfirm
const (
	ExitConfirm = "confirm"
	ExitCancel  = "cancel"

	ConfirmCancel   = "cancel"
	ConfirmContinue = "continue"
)

// maxCallbackBytes is the Telegram limit for callback_data
const maxCallbackBytes = 64

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	data := action + ":" + value
	if len(data) > maxCallbackBytes {
		// cut on a rune boundary
		data = strings.ToValidUTF8(data[:maxCallbackBytes], "")
	}
	return data
}
