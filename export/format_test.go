package export

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{"PNG", PNG},
		{".png", PNG},
		{" jpg ", JPG},
		{"jpeg", JPG},
		{"JPEG", JPG},
		{"webp", WebP},
		{"gif", GIF},
		{"pdf", PDF},
		{"avif", AVIF},
		{"", FormatUnknown},
		{"unknown", FormatUnknown},
		{"tiff", FormatUnknown},
		{"bmp", FormatUnknown},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{PNG, ".png"},
		{JPG, ".jpg"},
		{WebP, ".webp"},
		{GIF, ".gif"},
		{PDF, ".pdf"},
		{AVIF, ".avif"},
		{FormatUnknown, ".bin"},
		{Format(200), ".bin"},
	}
	for _, tt := range tests {
		if got := tt.f.Ext(); got != tt.want {
			t.Errorf("%v.Ext() = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	if got := Format(200).String(); got != "Format(200)" {
		t.Errorf("String() = %q", got)
	}
	for f := FormatUnknown; f < formatCount; f++ {
		if f != FormatUnknown && ParseFormat(f.String()) != f {
			t.Errorf("ParseFormat(%q) does not round-trip", f.String())
		}
	}
}
