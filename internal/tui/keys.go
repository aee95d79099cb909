package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"hangar/internal/config"
)

// delegateKeyMap holds the bindings that act on the selected entry.
type delegateKeyMap struct {
	launch   key.Binding
	detach   key.Binding
	favorite key.Binding
	yank     key.Binding
	history  key.Binding
	delete   key.Binding
}

// listKeyMap holds the bindings independent of the selection.
type listKeyMap struct {
	nextTab key.Binding
	prevTab key.Binding
}

// bindingFor builds a binding from the configured key name, falling back
// to the default when the config leaves it empty.
func bindingFor(configured, fallback, help string) key.Binding {
	k := configured
	if k == "" {
		k = fallback
	}
	return key.NewBinding(key.WithKeys(k), key.WithHelp(k, help))
}

func newDelegateKeyMap(keys config.KeysConfig) *delegateKeyMap {
	return &delegateKeyMap{
		launch:   bindingFor(keys.Launch, "enter", "launch"),
		detach:   bindingFor(keys.Detach, "d", "launch detached"),
		favorite: bindingFor(keys.Favorite, "f", "favorite"),
		yank:     bindingFor(keys.Yank, "y", "yank command"),
		history:  bindingFor(keys.History, "h", "history"),
		delete:   bindingFor(keys.Delete, "x", "delete"),
	}
}

func (d delegateKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{d.launch, d.detach, d.favorite}
}

func (d delegateKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{d.launch, d.detach, d.favorite},
		{d.yank, d.history, d.delete},
	}
}

func newListKeyMap(keys config.KeysConfig) *listKeyMap {
	return &listKeyMap{
		nextTab: bindingFor(keys.NextTab, "tab", "next tab"),
		prevTab: bindingFor(keys.PrevTab, "shift+tab", "prev tab"),
	}
}
