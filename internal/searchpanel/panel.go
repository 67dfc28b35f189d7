package searchpanel

import (
	"sync"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/workspace"
)

// Panel is a find panel searching workspace buffers. It implements Service.
//
// Results are computed lazily per editor and cached until the query, mode,
// case sensitivity or the buffer revision changes.
type Panel struct {
	mu         sync.RWMutex
	query      string
	opts       Options
	visible    bool
	generation uint64
	err        error
	results    map[string]cachedResults
	matchers   map[Mode]Matcher

	updated    *emitter[struct{}]
	visibility *emitter[bool]
}

type cachedResults struct {
	generation uint64
	revision   uint64
	results    Results
}

var _ Service = (*Panel)(nil)

// New returns a hidden panel with an empty query.
func New(opts ...Option) *Panel {
	o := applyOptions(opts)
	if _, err := ParseMode(string(o.Mode)); err != nil {
		o.Mode = ModeSubstring
	}
	return &Panel{
		opts:    o,
		results: make(map[string]cachedResults),
		matchers: map[Mode]Matcher{
			ModeSubstring: substringMatcher{},
			ModeRegex:     newRegexMatcher(o.RegexCacheSize),
			ModeToken:     tokenMatcher{},
		},
		updated:    newEmitter[struct{}](),
		visibility: newEmitter[bool](),
	}
}

// Query returns the current query.
func (p *Panel) Query() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.query
}

// Mode returns the current search mode.
func (p *Panel) Mode() Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.opts.Mode
}

// CaseInsensitive reports whether matching ignores case.
func (p *Panel) CaseInsensitive() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.opts.CaseInsensitive
}

// Err returns the error of the last result computation, if any (an invalid pattern).
func (p *Panel) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// SetQuery starts a new search. Setting the same query is a no-op.
func (p *Panel) SetQuery(query string) {
	p.mu.Lock()
	if query == p.query {
		p.mu.Unlock()
		return
	}
	p.query = query
	p.invalidateLocked()
	p.mu.Unlock()

	p.updated.emit(struct{}{})
}

// SetMode switches the search mode.
func (p *Panel) SetMode(mode Mode) error {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return err
	}
	p.mu.Lock()
	if mode == p.opts.Mode {
		p.mu.Unlock()
		return nil
	}
	p.opts.Mode = mode
	p.invalidateLocked()
	p.mu.Unlock()

	p.updated.emit(struct{}{})
	return nil
}

// SetCaseInsensitive toggles case-insensitive matching.
func (p *Panel) SetCaseInsensitive(enabled bool) {
	p.mu.Lock()
	if enabled == p.opts.CaseInsensitive {
		p.mu.Unlock()
		return
	}
	p.opts.CaseInsensitive = enabled
	p.invalidateLocked()
	p.mu.Unlock()

	p.updated.emit(struct{}{})
}

// Refresh drops cached results and notifies subscribers, e.g. after buffers were opened or edited.
func (p *Panel) Refresh() {
	p.mu.Lock()
	p.invalidateLocked()
	p.mu.Unlock()

	p.updated.emit(struct{}{})
}

// Show displays the find UI.
func (p *Panel) Show() { p.setVisible(true) }

// Hide hides the find UI.
func (p *Panel) Hide() { p.setVisible(false) }

// Toggle flips the find UI visibility.
func (p *Panel) Toggle() {
	p.setVisible(!p.IsFindVisible())
}

// IsFindVisible reports whether the find UI is shown.
func (p *Panel) IsFindVisible() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.visible
}

// OnDidUpdate calls fn after results change.
func (p *Panel) OnDidUpdate(fn func()) disposable.Disposable {
	return p.updated.subscribe(func(struct{}) { fn() })
}

// OnDidChangeFindVisibility calls fn with the new visibility after it changes.
func (p *Panel) OnDidChangeFindVisibility(fn func(visible bool)) disposable.Disposable {
	return p.visibility.subscribe(fn)
}

// ResultsMarkerLayerForTextEditor returns the matches of the current query in
// editor. It returns a nil layer when the query is empty, the editor content
// cannot be read, or the pattern is invalid (see Err).
func (p *Panel) ResultsMarkerLayerForTextEditor(editor workspace.Editor) (MarkerLayer, error) {
	results := p.resultsFor(editor)
	if results == nil {
		return nil, nil
	}
	return results, nil
}

// Results returns the matches for editor, or nil when there is no result layer.
func (p *Panel) Results(editor workspace.Editor) Results {
	return p.resultsFor(editor)
}

// Count returns the number of matches in editor.
func (p *Panel) Count(editor workspace.Editor) int {
	return len(p.resultsFor(editor))
}

func (p *Panel) resultsFor(editor workspace.Editor) Results {
	src, ok := editor.(workspace.TextSource)
	if !ok {
		return nil
	}

	p.mu.RLock()
	query := p.query
	opts := p.opts
	generation := p.generation
	cached, hit := p.results[editor.ID()]
	p.mu.RUnlock()

	if query == "" {
		return nil
	}
	revision := src.Revision()
	if hit && cached.generation == generation && cached.revision == revision {
		return cached.results
	}

	results, err := search(p.matchers[opts.Mode], src.Lines(), query, opts.CaseInsensitive)

	p.mu.Lock()
	defer p.mu.Unlock()
	// A newer search started while computing; do not cache stale results.
	if p.generation != generation {
		return results
	}
	p.err = err
	if err != nil {
		delete(p.results, editor.ID())
		return nil
	}
	p.results[editor.ID()] = cachedResults{generation: generation, revision: revision, results: results}
	return results
}

func (p *Panel) setVisible(visible bool) {
	p.mu.Lock()
	if p.visible == visible {
		p.mu.Unlock()
		return
	}
	p.visible = visible
	p.mu.Unlock()

	p.visibility.emit(visible)
}

// invalidateLocked drops cached results. Caller holds p.mu.
func (p *Panel) invalidateLocked() {
	p.generation++
	p.err = nil
	p.results = make(map[string]cachedResults)
}

// search runs matcher over every line.
func search(matcher Matcher, lines []string, query string, caseInsensitive bool) (Results, error) {
	results := Results{}
	for row, line := range lines {
		spans, err := matcher.Find(line, query, caseInsensitive)
		if err != nil {
			return nil, err
		}
		for _, s := range spans {
			results = append(results, Match{Range: Range{
				Start: Point{Row: row, Column: s[0]},
				End:   Point{Row: row, Column: s[1]},
			}})
		}
	}
	return results, nil
}
