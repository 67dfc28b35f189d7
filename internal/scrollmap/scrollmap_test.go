package scrollmap

import (
	"testing"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowsProvider reads []int rows from the cache data key.
type rowsProvider struct {
	name        string
	initialized int
	update      func()
	released    bool
}

func (p *rowsProvider) Name() string        { return p.name }
func (p *rowsProvider) Description() string { return "rows for " + p.name }

func (p *rowsProvider) Initialize(ctx InitContext) {
	p.initialized++
	p.update = ctx.Update
	ctx.Disposables.Add(disposable.Disposable(func() { p.released = true }))
}

func (p *rowsProvider) Items(ctx ItemsContext) []Item {
	v, ok := ctx.Cache.Get(DataKey)
	if !ok {
		return nil
	}
	var items []Item
	for _, r := range v.([]int) {
		items = append(items, Item{Row: r})
	}
	return items
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()

	_, ok := c.Get(DataKey)
	assert.False(t, ok)

	c.Set(DataKey, []int{1})
	v, ok := c.Get(DataKey)
	require.True(t, ok)
	assert.Equal(t, []int{1}, v)
}

func TestRegisterCreatesLayersOnExistingAndNewMaps(t *testing.T) {
	h := NewHost()
	before := h.NewMap(nil)

	p := &rowsProvider{name: "find"}
	h.Register(p)
	after := h.NewMap(nil)

	assert.Equal(t, 1, p.initialized)
	for _, m := range []*Map{before, after} {
		l, ok := m.Layer("find")
		require.True(t, ok)
		assert.Equal(t, "find", l.Name())
	}
	assert.Equal(t, []Provider{p}, h.Providers())
}

func TestLayerUpdateRecomputesAndRedraws(t *testing.T) {
	h := NewHost()
	h.Register(&rowsProvider{name: "find"})
	redraws := 0
	m := h.NewMap(func() { redraws++ })

	l, ok := m.Layer("find")
	require.True(t, ok)
	l.Cache().Set(DataKey, []int{4, 2})
	assert.Empty(t, m.Items("find"), "items are only recomputed on update")

	require.NoError(t, l.Update())

	assert.Equal(t, []Item{{Row: 4}, {Row: 2}}, m.Items("find"))
	assert.Equal(t, 1, redraws)
}

func TestProviderUpdateRefreshesEveryMap(t *testing.T) {
	h := NewHost()
	p := &rowsProvider{name: "find"}
	h.Register(p)
	a := h.NewMap(nil)
	b := h.NewMap(nil)

	for _, m := range []*Map{a, b} {
		l, _ := m.Layer("find")
		l.Cache().Set(DataKey, []int{7})
	}
	p.update()

	assert.Equal(t, []Item{{Row: 7}}, a.Items("find"))
	assert.Equal(t, []Item{{Row: 7}}, b.Items("find"))
}

func TestUnregisterReleasesProvider(t *testing.T) {
	h := NewHost()
	m := h.NewMap(nil)
	p := &rowsProvider{name: "find"}
	d := h.Register(p)

	d.Dispose()
	d.Dispose()

	assert.True(t, p.released)
	_, ok := m.Layer("find")
	assert.False(t, ok)
	assert.Empty(t, h.Providers())
	assert.Nil(t, m.Items("find"))
}

func TestHostDispose(t *testing.T) {
	h := NewHost()
	m := h.NewMap(nil)
	providers := []*rowsProvider{{name: "a"}, {name: "b"}, {name: "c"}, {name: "d"}}
	for _, p := range providers {
		h.Register(p)
	}

	h.Dispose()

	for _, p := range providers {
		assert.True(t, p.released, "provider %s should be released", p.name)
		_, ok := m.Layer(p.name)
		assert.False(t, ok, "layer %s should be removed", p.name)
	}
	assert.Empty(t, h.Providers())
	assert.Empty(t, m.Names())
}

func TestClosedMapRejectsUpdates(t *testing.T) {
	h := NewHost()
	h.Register(&rowsProvider{name: "find"})
	m := h.NewMap(nil)
	l, _ := m.Layer("find")

	m.Close()

	assert.ErrorIs(t, l.Update(), ErrLayerClosed)
}

func TestRowsMergesLayers(t *testing.T) {
	h := NewHost()
	h.Register(&rowsProvider{name: "find"})
	h.Register(&rowsProvider{name: "git"})
	m := h.NewMap(nil)

	find, _ := m.Layer("find")
	find.Cache().Set(DataKey, []int{9, 3})
	require.NoError(t, find.Update())
	git, _ := m.Layer("git")
	git.Cache().Set(DataKey, []int{3, 1})
	require.NoError(t, git.Update())

	assert.Equal(t, []string{"find", "git"}, m.Names())
	assert.Equal(t, []int{1, 3, 9}, m.Rows())
}

func TestProject(t *testing.T) {
	tests := []struct {
		name      string
		rows      []int
		totalRows int
		height    int
		want      []int
	}{
		{name: "one row per cell", rows: []int{0, 2}, totalRows: 4, height: 4, want: []int{1, 0, 1, 0}},
		{name: "compressed", rows: []int{0, 1, 50, 99}, totalRows: 100, height: 4, want: []int{2, 0, 1, 1}},
		{name: "out of range ignored", rows: []int{-1, 10}, totalRows: 10, height: 2, want: []int{0, 0}},
		{name: "empty document", rows: []int{0}, totalRows: 0, height: 3, want: []int{0, 0, 0}},
		{name: "no height", rows: []int{0}, totalRows: 10, height: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Project(tt.rows, tt.totalRows, tt.height))
		})
	}
}
