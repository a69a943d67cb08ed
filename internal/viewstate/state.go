// Package viewstate holds the explicit view state of one map client:
// viewport, list controls, selected pantry and the history panel.
//
// State values are immutable; every transition returns a new State.
package viewstate

import (
	"micropantry-api/internal/discovery"
)

// HistoryPanel tracks the expanded telemetry panel. Generation increases on
// every expand and collapse so late fetch results can be recognized.
type HistoryPanel struct {
	Open       bool   `json:"open"`
	PantryID   string `json:"pantryId,omitempty"`
	Generation uint64 `json:"generation"`
}

// Token identifies one history fetch.
type Token struct {
	PantryID   string `json:"pantryId"`
	Generation uint64 `json:"generation"`
}

// State is the view state of one client.
type State struct {
	Viewport  *discovery.Bounds  `json:"viewport,omitempty"`
	Controls  discovery.Controls `json:"controls"`
	Selection string             `json:"selection,omitempty"`
	History   HistoryPanel       `json:"history"`
}

// New returns the initial state: default controls, nothing selected.
func New() State {
	return State{Controls: discovery.DefaultControls()}
}

// ListActive reports whether the viewport list drives the view. It is false
// while a pantry detail is open.
func (s State) ListActive() bool {
	return s.Selection == ""
}

// WithViewport records a new viewport.
func (s State) WithViewport(b discovery.Bounds) State {
	s.Viewport = &b
	return s
}

// WithControls replaces the list controls.
func (s State) WithControls(c discovery.Controls) State {
	s.Controls = c
	return s
}

// Select opens the detail view of a pantry. Any open history panel for a
// different pantry is collapsed.
func (s State) Select(pantryID string) State {
	if s.History.Open && s.History.PantryID != pantryID {
		s = s.CollapseHistory()
	}
	s.Selection = pantryID
	return s
}

// ClearSelection returns to the list view and collapses the history panel.
func (s State) ClearSelection() State {
	if s.History.Open {
		s = s.CollapseHistory()
	}
	s.Selection = ""
	return s
}

// ExpandHistory opens the history panel for the selected pantry and returns
// the token its fetch must present to commit. ok is false when no pantry is
// selected.
func (s State) ExpandHistory() (State, Token, bool) {
	if s.Selection == "" {
		return s, Token{}, false
	}
	s.History = HistoryPanel{
		Open:       true,
		PantryID:   s.Selection,
		Generation: s.History.Generation + 1,
	}
	return s, Token{PantryID: s.Selection, Generation: s.History.Generation}, true
}

// CollapseHistory closes the history panel.
func (s State) CollapseHistory() State {
	s.History = HistoryPanel{Generation: s.History.Generation + 1}
	return s
}

// Accepts reports whether a fetch started with t may still commit.
func (s State) Accepts(t Token) bool {
	return s.History.Open &&
		s.History.PantryID == t.PantryID &&
		s.History.Generation == t.Generation
}
