package sketch

import "fmt"

// Mode identifies the active drawing tool. Every snapshot records the mode
// that was active when it was captured.
type Mode uint8

const (
	ModePen Mode = iota
	ModeEraser
	ModePipette
	ModeCircle
	ModeRectangle

	modeCount
)

// modeNames maps Mode values to their string representation.
var modeNames = [...]string{
	ModePen:       "pen",
	ModeEraser:    "eraser",
	ModePipette:   "pipette",
	ModeCircle:    "circle",
	ModeRectangle: "rectangle",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m < modeCount
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("sketch: unknown mode %q", s)
}
