package models

import "time"

// ViewTone tells the renderer which theme colour a view uses
type ViewTone string

const (
	ToneOnline  ViewTone = "online"
	ToneOffline ViewTone = "offline"
	ToneError   ViewTone = "error"
	ToneInfo    ViewTone = "info"
)

type Field struct {
	Label  string
	Value  string
	Inline bool
}

// Action is a button attached to a view. Count is set for view-players actions.
type Action struct {
	Kind     ActionKind
	CustomID string
	Count    int
}

// ViewModel is the renderable form of a query result; never mutated after construction
type ViewModel struct {
	Title           string
	StatusLine      string
	Tone            ViewTone
	Fields          []Field
	Actions         []Action
	FooterTimestamp time.Time
}

// HasAction reports whether the view offers an action of the given kind
func (v ViewModel) HasAction(kind ActionKind) bool {
	for _, action := range v.Actions {
		if action.Kind == kind {
			return true
		}
	}
	return false
}

// Field returns the value of the first field with the given label
func (v ViewModel) Field(label string) (string, bool) {
	for _, field := range v.Fields {
		if field.Label == label {
			return field.Value, true
		}
	}
	return "", false
}
