package hotkey

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const evKey = 0x01

// Linux input-event-codes.h
const (
	KeyF1  uint16 = 59
	KeyF4  uint16 = 62
	KeyF8  uint16 = 66
	KeyF9  uint16 = 67
	KeyF10 uint16 = 68
	KeyF11 uint16 = 87
	KeyF12 uint16 = 88
)

var keyNames = map[string]uint16{
	"F1": KeyF1, "F2": KeyF1 + 1, "F3": KeyF1 + 2, "F4": KeyF4, "F5": KeyF1 + 4,
	"F6": KeyF1 + 5, "F7": KeyF1 + 6, "F8": KeyF8, "F9": KeyF9, "F10": KeyF10,
	"F11": KeyF11, "F12": KeyF12,
}

// Bindings maps key codes to events.
type Bindings map[uint16]Event

// DefaultBindings toggles on F8 and exits on F4.
func DefaultBindings() Bindings {
	return Bindings{KeyF8: Toggle, KeyF4: Exit}
}

// ParseKey accepts function key names such as "F8".
func ParseKey(name string) (uint16, error) {
	code, ok := keyNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return code, nil
}

// WithExitKey returns a copy of bindings whose exit key is code. code 0
// disables exiting from the keyboard.
func (bindings Bindings) WithExitKey(code uint16) Bindings {
	out := Bindings{}
	for key, ev := range bindings {
		if ev != Exit {
			out[key] = ev
		}
	}
	if code != 0 {
		out[code] = Exit
	}
	return out
}

// decodeKeyPresses walks a buffer of input_event records (timeval, u16 type,
// u16 code, s32 value) and returns the bound events for key-down records.
func decodeKeyPresses(buf []byte, tvSize int, bindings Bindings) []Event {
	eventSize := tvSize + 2 + 2 + 4
	var out []Event
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey || value != 1 {
			continue
		}
		if ev, ok := bindings[code]; ok {
			out = append(out, ev)
		}
	}
	return out
}
