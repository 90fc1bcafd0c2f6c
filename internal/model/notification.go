package model

import (
	"encoding/json"
	"strconv"
)

// DefaultAutoCloseMillis is how long a toast stays on screen when the
// producer does not say otherwise.
const DefaultAutoCloseMillis = 5000

// Level is the visual severity of a notification.
type Level string

const (
	LevelDefault    Level = "default"
	LevelInfo       Level = "info"
	LevelSuccess    Level = "success"
	LevelWarning    Level = "warning"
	LevelError      Level = "error"
	LevelInProgress Level = "in-progress"
)

// ParseLevel maps a wire value onto a known Level. Unknown values are
// not an error: they fall back to LevelInfo so that producers never get
// rejected over a cosmetic field.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelDefault, LevelInfo, LevelSuccess, LevelWarning, LevelError, LevelInProgress:
		return Level(s)
	default:
		return LevelInfo
	}
}

// DisplayType is how an action button is styled by the host surface.
type DisplayType string

const (
	DisplayDefault DisplayType = "default"
	DisplayAccent  DisplayType = "accent"
	DisplayWarn    DisplayType = "warn"
	DisplayLink    DisplayType = "link"
)

// ParseDisplayType maps a wire value onto a known DisplayType, falling
// back to DisplayDefault for anything it does not recognize.
func ParseDisplayType(s string) DisplayType {
	switch DisplayType(s) {
	case DisplayDefault, DisplayAccent, DisplayWarn, DisplayLink:
		return DisplayType(s)
	default:
		return DisplayDefault
	}
}

// AutoClose is the toast lifetime. On the wire it is either a number of
// milliseconds or the literal false:
//
//	5000  -> close after 5s
//	0     -> silent, notification-center entry only
//	false -> stays until manually dismissed
type AutoClose struct {
	Disabled bool // manual dismiss (JSON false)
	Millis   int64
}

// DefaultAutoClose returns the 5000ms default.
func DefaultAutoClose() AutoClose {
	return AutoClose{Millis: DefaultAutoCloseMillis}
}

// Silent reports whether the notification should skip the toast and go
// straight to the notification center.
func (a AutoClose) Silent() bool {
	return !a.Disabled && a.Millis == 0
}

func (a AutoClose) MarshalJSON() ([]byte, error) {
	if a.Disabled {
		return []byte("false"), nil
	}
	return []byte(strconv.FormatInt(a.Millis, 10)), nil
}

// UnmarshalJSON accepts a number or false. Anything else degrades to
// the default instead of failing the whole payload.
func (a *AutoClose) UnmarshalJSON(b []byte) error {
	var ms int64
	if err := json.Unmarshal(b, &ms); err == nil {
		*a = AutoClose{Millis: ms}
		return nil
	}

	var enabled bool
	if err := json.Unmarshal(b, &enabled); err == nil {
		if !enabled {
			*a = AutoClose{Disabled: true}
		} else {
			*a = DefaultAutoClose()
		}
		return nil
	}

	*a = DefaultAutoClose()
	return nil
}

// Action is a button attached to a notification. When clicked, the
// client dispatches CommandID with Args to a host capability; an action
// without a CommandID just dismisses the notification.
type Action struct {
	Label       string         `json:"label"`
	Caption     string         `json:"caption"`
	DisplayType DisplayType    `json:"displayType"`
	CommandID   string         `json:"commandId,omitempty"`
	Args        map[string]any `json:"args,omitempty"`
}

// Notification is a single mailbox record. It is created by the ingest
// endpoint, lives in process memory and is destroyed the moment a fetch
// drains it.
type Notification struct {
	ID        string          `json:"id"`
	Message   string          `json:"message"`
	Type      Level           `json:"type"`
	AutoClose AutoClose       `json:"autoClose"`
	CreatedAt int64           `json:"createdAt"` // unix milliseconds
	Actions   []Action        `json:"actions"`
	Data      json.RawMessage `json:"data,omitempty"`
}
