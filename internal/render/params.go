package render

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"asciify/internal/ascii"
	"asciify/internal/services"
)

// ColorMode selects how glyph colours are derived.
type ColorMode int

const (
	Monochrome ColorMode = iota
	LimitedPalette
	FullColor
)

func (m ColorMode) String() string {
	switch m {
	case Monochrome:
		return "monochrome"
	case LimitedPalette:
		return "limited"
	case FullColor:
		return "full"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name for the worker protocol.
func (m ColorMode) MarshalText() ([]byte, error) {
	switch m {
	case Monochrome, LimitedPalette, FullColor:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("unknown color mode %d", int(m))
	}
}

func (m *ColorMode) UnmarshalText(text []byte) error {
	parsed, err := ParseColorMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m ColorMode) palette() ascii.Palette {
	switch m {
	case LimitedPalette:
		return ascii.PaletteANSI
	case FullColor:
		return ascii.PaletteFull
	default:
		return ascii.PaletteMonochrome
	}
}

var colorModeAliases = map[string]ColorMode{
	"monochrome":     Monochrome,
	"mono":           Monochrome,
	"bw":             Monochrome,
	"blackwhite":     Monochrome,
	"blackandwhite":  Monochrome,
	"schwarzweiss":   Monochrome,
	"limited":        LimitedPalette,
	"limitedpalette": LimitedPalette,
	"palette":        LimitedPalette,
	"ansi":           LimitedPalette,
	"8colors":        LimitedPalette,
	"8farben":        LimitedPalette,
	"full":           FullColor,
	"fullcolor":      FullColor,
	"color":          FullColor,
	"truecolor":      FullColor,
}

// ParseColorMode accepts canonical names and the legacy UI labels
// ("Schwarz & Weiß", "8 Farben", "Full Color"). Matching is case-folded and
// ignores spaces and punctuation.
func ParseColorMode(value string) (ColorMode, error) {
	folded := cases.Fold().String(strings.TrimSpace(value))
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, folded)
	if mode, ok := colorModeAliases[key]; ok {
		return mode, nil
	}
	return Monochrome, services.Wrap(services.ErrValidation, "render", "parse color mode",
		fmt.Sprintf("unsupported color mode %q", value), nil)
}

// Parameters are fixed for the lifetime of a job and shared read-only by
// every worker.
type Parameters struct {
	Rotation    int       `json:"rotation"`
	Columns     int       `json:"columns"`
	Brightness  float64   `json:"brightness"`
	ColorMode   ColorMode `json:"color_mode"`
	JPEGQuality int       `json:"jpeg_quality"`
}

// DefaultParameters mirrors the configuration defaults.
func DefaultParameters() Parameters {
	return Parameters{
		Rotation:    0,
		Columns:     300,
		Brightness:  1.0,
		ColorMode:   FullColor,
		JPEGQuality: 95,
	}
}

// Validate reports parameter problems as validation errors.
func (p Parameters) Validate() error {
	var problem string
	switch {
	case p.Rotation != 0 && p.Rotation != 90 && p.Rotation != 180 && p.Rotation != 270:
		problem = fmt.Sprintf("rotation must be one of 0, 90, 180, 270 (got %d)", p.Rotation)
	case p.Columns <= 0:
		problem = fmt.Sprintf("columns must be positive (got %d)", p.Columns)
	case !(p.Brightness > 0):
		problem = fmt.Sprintf("brightness must be positive (got %g)", p.Brightness)
	case p.JPEGQuality < 1 || p.JPEGQuality > 100:
		problem = fmt.Sprintf("jpeg quality must be between 1 and 100 (got %d)", p.JPEGQuality)
	case p.ColorMode < Monochrome || p.ColorMode > FullColor:
		problem = fmt.Sprintf("unknown color mode %d", int(p.ColorMode))
	default:
		return nil
	}
	return services.Wrap(services.ErrValidation, "render", "validate parameters", problem, nil)
}
