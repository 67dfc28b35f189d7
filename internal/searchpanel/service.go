// Package searchpanel defines the find service consumed by the scrollmap
// bridge and provides a search panel that implements it over workspace buffers.
package searchpanel

import (
	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/workspace"
)

// Point is a zero-based screen position.
type Point struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Range is a screen range; End is exclusive.
type Range struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Marker is a search result position.
type Marker interface {
	ScreenRange() Range
}

// MarkerLayer holds the result markers of one editor.
type MarkerLayer interface {
	Markers() []Marker
}

// Service is the find service of a search panel.
type Service interface {
	// IsFindVisible reports whether the find UI is shown.
	IsFindVisible() bool
	// ResultsMarkerLayerForTextEditor returns the results of editor, or a nil
	// layer when the editor has none.
	ResultsMarkerLayerForTextEditor(editor workspace.Editor) (MarkerLayer, error)
	// OnDidUpdate calls fn after results change.
	OnDidUpdate(fn func()) disposable.Disposable
	// OnDidChangeFindVisibility calls fn after the find UI is shown or hidden.
	OnDidChangeFindVisibility(fn func(visible bool)) disposable.Disposable
}

// Match is a Marker produced by the search panel.
type Match struct {
	Range Range
}

// ScreenRange returns the match range.
func (m Match) ScreenRange() Range {
	return m.Range
}

// Results is a MarkerLayer of matches.
type Results []Match

// Markers returns the matches as markers.
func (r Results) Markers() []Marker {
	markers := make([]Marker, len(r))
	for i, m := range r {
		markers[i] = m
	}
	return markers
}
