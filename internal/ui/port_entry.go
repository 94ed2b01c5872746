package ui

import (
	"strconv"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"github.com/tartampluch/go-countday/internal/config"
)

// maxPortDigits is the width of the largest TCP port.
var maxPortDigits = len(strconv.Itoa(config.MaxPort))

// PortEntry accepts typed digits only, up to the width of a TCP port.
// The feed settings use it for the listen port.
type PortEntry struct {
	widget.Entry
}

// NewPortEntry creates a PortEntry.
func NewPortEntry() *PortEntry {
	entry := &PortEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune keeps 0-9 while the field is shorter than a port. Pasted text
// bypasses this and is caught by the Validator.
func (e *PortEntry) TypedRune(r rune) {
	if r < '0' || r > '9' || len(e.Text) >= maxPortDigits {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard requests the numeric keypad on mobile drivers.
func (e *PortEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
