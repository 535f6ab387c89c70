package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/jscyril/playlist_manager/internal/config"
)

// keyMap binds the configured keys to player actions
type keyMap struct {
	Play        key.Binding
	PlayAll     key.Binding
	PlayPause   key.Binding
	Stop        key.Binding
	Next        key.Binding
	Previous    key.Binding
	SeekForward key.Binding
	SeekBack    key.Binding
	Add         key.Binding
	Remove      key.Binding
	Shuffle     key.Binding
	Save        key.Binding
	Load        key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Quit        key.Binding
}

func newKeyMap(k config.KeyMap) keyMap {
	bind := func(desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label(keys[0]), desc))
	}
	return keyMap{
		Play:        bind("play", k.Play),
		PlayAll:     bind("play all", k.PlayAll),
		PlayPause:   bind("pause", k.PlayPause),
		Stop:        bind("stop", k.Stop),
		Next:        bind("next", k.Next),
		Previous:    bind("prev", k.Previous),
		SeekForward: bind("seek +5%", k.SeekForward),
		SeekBack:    bind("seek -5%", k.SeekBack),
		Add:         bind("add", k.Add),
		Remove:      bind("remove", k.Remove),
		Shuffle:     bind("shuffle", k.Shuffle),
		Save:        bind("save", k.Save),
		Load:        bind("load", k.Load),
		VolumeUp:    bind("vol +", k.VolumeUp, "="),
		VolumeDown:  bind("vol -", k.VolumeDown),
		Quit:        bind("quit", k.Quit),
	}
}

// label is how a key is shown in the help
func label(k string) string {
	switch k {
	case " ":
		return "space"
	case "right":
		return "→"
	case "left":
		return "←"
	default:
		return k
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Previous, k.Add, k.Save, k.Load, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.PlayAll, k.PlayPause, k.Stop},
		{k.Next, k.Previous, k.SeekForward, k.SeekBack},
		{k.Add, k.Remove, k.Shuffle},
		{k.Save, k.Load, k.VolumeUp, k.VolumeDown},
		{k.Quit},
	}
}
