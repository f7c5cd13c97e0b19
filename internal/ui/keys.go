package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Confirm key.Binding
	Deny    key.Binding
	Toggle  key.Binding
	Submit  key.Binding
	Quit    key.Binding
}

var Keys = KeyMap{
	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "rerun")),
	Deny:    key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "skip")),
	Toggle:  key.NewBinding(key.WithKeys("tab", "left", "right", "h", "l"), key.WithHelp("tab", "toggle")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

// ShortHelp lists the bindings shown under the confirm dialog.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Deny, k.Toggle, k.Submit}
}
