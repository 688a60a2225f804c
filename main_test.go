//go:build linux

package main

import (
	"testing"

	"github.com/rook-computer/crosshair/internal/hotkey"
)

func TestHotkeyBindings(t *testing.T) {
	bindings, err := hotkeyBindings("f9", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 1 || bindings[hotkey.KeyF9] != hotkey.Toggle {
		t.Fatalf("bindings = %v", bindings)
	}

	bindings, err = hotkeyBindings("F8", "F12")
	if err != nil {
		t.Fatal(err)
	}
	if bindings[hotkey.KeyF8] != hotkey.Toggle || bindings[hotkey.KeyF12] != hotkey.Exit {
		t.Fatalf("bindings = %v", bindings)
	}

	for _, tt := range [][2]string{{"F8", "F8"}, {"Space", "F4"}, {"F8", "Esc"}} {
		if _, err := hotkeyBindings(tt[0], tt[1]); err == nil {
			t.Fatalf("%v accepted", tt)
		}
	}
}
