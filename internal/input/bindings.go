package input

import (
	"fmt"
	"strings"
)

// Bindings maps a key name (as reported by the front-end) to an intent.
type Bindings map[string]Intent

// DefaultKeys is the key-name to intent-name table used when no config
// overrides it.
func DefaultKeys() map[string]string {
	return map[string]string{
		"w":     "forward",
		"s":     "backward",
		"a":     "left",
		"d":     "right",
		"shift": "sprint",
		"space": "jump",
		"e":     "interact",
		"1":     "slot1",
		"2":     "slot2",
		"f":     "fire",
		"r":     "aim",
	}
}

// NewBindings validates a key-name to intent-name table.
func NewBindings(keys map[string]string) (Bindings, error) {
	b := make(Bindings, len(keys))
	for key, name := range keys {
		intent, ok := ParseIntent(name)
		if !ok {
			return nil, fmt.Errorf("key %q: unknown intent %q", key, name)
		}
		b[strings.ToLower(key)] = intent
	}
	return b, nil
}

// Lookup returns the intent bound to key.
func (b Bindings) Lookup(key string) (Intent, bool) {
	i, ok := b[strings.ToLower(key)]
	return i, ok
}
