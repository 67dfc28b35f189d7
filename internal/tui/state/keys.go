package state

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search      key.Binding
	Apply       key.Binding
	Cancel      key.Binding
	Permanent   key.Binding
	Mode        key.Binding
	IgnoreCase  key.Binding
	NextBuffer  key.Binding
	NextResult  key.Binding
	PrevResult  key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
	ReloadFiles key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Apply:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide panel")),
		Permanent:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle permanent")),
		Mode:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle mode")),
		IgnoreCase:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "toggle case")),
		NextBuffer:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next buffer")),
		NextResult:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next result")),
		PrevResult:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "previous result")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
		ReloadFiles: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload files")),
	}
}
