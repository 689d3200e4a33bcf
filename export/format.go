package export

import (
	"fmt"
	"strings"
)

// Format is an export encoding.
type Format uint8

const (
	FormatUnknown Format = iota
	PNG
	JPG
	WebP
	GIF
	PDF
	AVIF

	formatCount
)

// formatNames maps Format values to their string representation.
var formatNames = [...]string{
	FormatUnknown: "unknown",
	PNG:           "png",
	JPG:           "jpg",
	WebP:          "webp",
	GIF:           "gif",
	PDF:           "pdf",
	AVIF:          "avif",
}

// String returns the lowercase format name.
func (f Format) String() string {
	if f < formatCount {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", f)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatUnknown || f >= formatCount {
		return ".bin"
	}
	return "." + formatNames[f]
}

// ParseFormat converts a format name to a Format. "jpeg" is accepted as an
// alias of "jpg". Unrecognized names map to FormatUnknown, which a Pipeline
// reports as not implemented.
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if s == "jpeg" {
		return JPG
	}
	for i, name := range formatNames {
		if i != int(FormatUnknown) && name == s {
			return Format(i)
		}
	}
	return FormatUnknown
}
