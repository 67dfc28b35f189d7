package core

import (
	"github.com/cristianoliveira/scrollmap-search-panel/internal/scrollmap"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/searchpanel"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/settings"
)

// Description is the human readable label of the find provider.
const Description = "Search panel result markers"

// Provider renders cached search results on the scrollmap.
type Provider struct {
	pkg *Package
}

var _ scrollmap.Provider = (*Provider)(nil)

func (*Provider) Name() string { return LayerName }

func (*Provider) Description() string { return Description }

// Initialize redraws the find layers whenever threshold or permanent change.
func (pr *Provider) Initialize(ctx scrollmap.InitContext) {
	update := func(string) {
		if ctx.Update != nil {
			ctx.Update()
		}
	}
	ctx.Disposables.Add(
		pr.pkg.config.OnDidChange(settings.KeyPermanent, update),
		pr.pkg.config.OnDidChange(settings.KeyThreshold, update),
	)
}

// Items maps the cached markers to rows. When the threshold is set and the
// number of markers exceeds it, nothing is rendered.
func (pr *Provider) Items(ctx scrollmap.ItemsContext) []scrollmap.Item {
	items := []scrollmap.Item{}
	if ctx.Cache == nil {
		return items
	}
	value, _ := ctx.Cache.Get(scrollmap.DataKey)
	markers, _ := value.([]searchpanel.Marker)
	for _, m := range markers {
		items = append(items, scrollmap.Item{Row: m.ScreenRange().Start.Row})
	}
	if threshold := pr.pkg.mirror.Threshold(); threshold > 0 && len(items) > threshold {
		return []scrollmap.Item{}
	}
	return items
}
