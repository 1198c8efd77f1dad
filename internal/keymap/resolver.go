package keymap

import (
	"strings"

	"github.com/samber/lo"
)

// Resolver maps key strings to actions. When two bindings share a key the
// later one wins.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string
}

// NewResolver indexes bindings.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action),
		keys:    make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			r.actions[key] = b.Action
		}
		r.keys[b.Action] = lo.Uniq(append(r.keys[b.Action], b.Keys...))
	}
	return r
}

// Resolve returns the action for a key, or "" if the key is unbound.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor returns the keys bound to action in declaration order, or nil.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}

// Hint returns the first key of action as shown to the user, or "".
func (r *Resolver) Hint(action Action) string {
	keys := r.keys[action]
	if len(keys) == 0 {
		return ""
	}
	return Label(keys[0])
}

var labels = map[string]string{
	" ":     "space",
	"left":  "←",
	"right": "→",
	"up":    "↑",
	"down":  "↓",
}

// Label returns the display form of a key.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

// LabelAll joins the display forms of keys.
func LabelAll(keys []string) string {
	return strings.Join(lo.Map(keys, func(k string, _ int) string { return Label(k) }), ", ")
}
