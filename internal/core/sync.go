package core

import (
	"fmt"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/scrollmap"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/searchpanel"
)

// SyncAll writes the current result markers into the find layer of every
// open editor and asks each layer to redraw.
//
// Editors without a find layer are skipped. When the panel is hidden and
// the permanent setting is off, an empty marker list is written without
// querying the service. The first collaborator error aborts the pass for
// the remaining editors and is returned; the next pass starts over.
//
// Without a stored service SyncAll does nothing.
func (p *Package) SyncAll() error {
	service := p.Service()
	if service == nil {
		return nil
	}

	for _, editor := range p.workspace.TextEditors() {
		layer, ok := editor.ScrollmapLayer(LayerName)
		if !ok {
			continue
		}

		markers := []searchpanel.Marker{}
		if p.mirror.Permanent() || service.IsFindVisible() {
			results, err := service.ResultsMarkerLayerForTextEditor(editor)
			if err != nil {
				return fmt.Errorf("results for %s: %w", editor.ID(), err)
			}
			if results != nil {
				if m := results.Markers(); m != nil {
					markers = m
				}
			}
		}

		layer.Cache().Set(scrollmap.DataKey, markers)
		if err := layer.Update(); err != nil {
			return fmt.Errorf("update %s layer of %s: %w", LayerName, editor.ID(), err)
		}
	}
	return nil
}
