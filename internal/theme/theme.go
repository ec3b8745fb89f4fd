// Package theme resolves drawable colors for painting surfaces. Colors set on
// a control win; everything else falls back to a retro palette keyed by the
// drawable's class.
package theme

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/1broseidon/relic/internal/control"
	"github.com/1broseidon/relic/internal/platform"
)

// Theme holds the default colors per drawable role. Values are color strings
// accepted by Parse.
type Theme struct {
	Desktop          string `yaml:"desktop"`
	WindowBackground string `yaml:"window_background"`
	WindowForeground string `yaml:"window_foreground"`
	Border           string `yaml:"border"`
	InnerBorder      string `yaml:"inner_border"`
	Title            string `yaml:"title"`
	TitleText        string `yaml:"title_text"`
	TitleFocused     string `yaml:"title_focused"`
	TitleFocusedText string `yaml:"title_focused_text"`
	BorderFocused    string `yaml:"border_focused"`
	Corner           string `yaml:"corner"`
}

// Default returns the classic teal desktop with silver windows.
func Default() Theme {
	return Theme{
		Desktop:          "#008080",
		WindowBackground: "#c0c0c0",
		WindowForeground: "#000000",
		Border:           "#dfdfdf",
		InnerBorder:      "#808080",
		Title:            "#808080",
		TitleText:        "#c0c0c0",
		TitleFocused:     "#000080",
		TitleFocusedText: "#ffffff",
		BorderFocused:    "#ffffff",
		Corner:           "#a0a0a0",
	}
}

var named = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"silver":  "#c0c0c0",
	"gray":    "#808080",
	"grey":    "#808080",
	"red":     "#ff0000",
	"maroon":  "#800000",
	"yellow":  "#ffff00",
	"olive":   "#808000",
	"lime":    "#00ff00",
	"green":   "#008000",
	"aqua":    "#00ffff",
	"teal":    "#008080",
	"blue":    "#0000ff",
	"navy":    "#000080",
	"fuchsia": "#ff00ff",
	"purple":  "#800080",
}

// Parse converts "#rrggbb", "#rgb" or a basic color name to 0xRRGGBB.
func Parse(s string) (uint32, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := named[v]; ok {
		v = hex
	}
	if len(v) == 4 && v[0] == '#' {
		v = string([]byte{'#', v[1], v[1], v[2], v[2], v[3], v[3]})
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}

// Validate reports the first theme color that does not parse.
func (t Theme) Validate() error {
	for _, f := range t.fields() {
		if f.value == "" {
			continue
		}
		if _, err := Parse(f.value); err != nil {
			return fmt.Errorf("theme.%s: %w", f.name, err)
		}
	}
	return nil
}

// Merge returns t with empty fields taken from fallback.
func (t Theme) Merge(fallback Theme) Theme {
	out := t
	dst := out.fields()
	src := fallback.fields()
	for i := range dst {
		if *dst[i].ptr == "" {
			*dst[i].ptr = src[i].value
		}
	}
	return out
}

type field struct {
	name  string
	value string
	ptr   *string
}

func (t *Theme) fields() []field {
	return []field{
		{"desktop", t.Desktop, &t.Desktop},
		{"window_background", t.WindowBackground, &t.WindowBackground},
		{"window_foreground", t.WindowForeground, &t.WindowForeground},
		{"border", t.Border, &t.Border},
		{"inner_border", t.InnerBorder, &t.InnerBorder},
		{"title", t.Title, &t.Title},
		{"title_text", t.TitleText, &t.TitleText},
		{"title_focused", t.TitleFocused, &t.TitleFocused},
		{"title_focused_text", t.TitleFocusedText, &t.TitleFocusedText},
		{"border_focused", t.BorderFocused, &t.BorderFocused},
		{"corner", t.Corner, &t.Corner},
	}
}

// Palette resolves drawable colors against a theme. It satisfies
// platform.Palette.
type Palette struct {
	theme Theme
}

var _ platform.Palette = (*Palette)(nil)

// NewPalette builds a palette; empty theme fields use Default.
func NewPalette(t Theme) *Palette {
	return &Palette{theme: t.Merge(Default())}
}

// Colors returns the effective background and foreground of d. Content hosts
// without their own colors inherit from the drawable they sit in.
func (p *Palette) Colors(d platform.Drawable) (background, foreground uint32) {
	st := d.Style()
	parent := d.Parent()
	if parent != nil && (d.HasClass(control.ClassInner) || d.HasClass(control.ClassContent)) {
		background, foreground = p.Colors(parent)
	} else {
		bgName, fgName := p.defaults(d)
		background = p.resolve(bgName, p.theme.WindowBackground)
		foreground = p.resolve(fgName, p.theme.WindowForeground)
	}
	if st.Background != "" {
		background = p.resolve(st.Background, p.theme.WindowBackground)
	}
	if st.Foreground != "" {
		foreground = p.resolve(st.Foreground, p.theme.WindowForeground)
	}
	return background, foreground
}

func (p *Palette) defaults(d platform.Drawable) (string, string) {
	t := p.theme
	focused := func(class string) bool {
		parent := d.Parent()
		return parent != nil && parent.HasClass(class)
	}

	switch {
	case d.HasClass(control.ClassDesktop):
		return t.Desktop, t.WindowForeground
	case d.HasClass(control.ClassTitle):
		if focused(control.ClassTitleFocused) {
			return t.TitleFocused, t.TitleFocusedText
		}
		return t.Title, t.TitleText
	case d.HasClass(control.ClassBorder):
		if focused(control.ClassBorderFocused) {
			return t.BorderFocused, t.WindowForeground
		}
		return t.Border, t.WindowForeground
	case d.HasClass(control.ClassInnerBorder):
		return t.InnerBorder, t.WindowForeground
	case d.HasClass(control.ClassCornerNW), d.HasClass(control.ClassCornerNE),
		d.HasClass(control.ClassCornerSW), d.HasClass(control.ClassCornerSE):
		return t.Corner, t.WindowForeground
	default:
		return t.WindowBackground, t.WindowForeground
	}
}

func (p *Palette) resolve(name, fallback string) uint32 {
	if v, err := Parse(name); err == nil {
		return v
	}
	v, _ := Parse(fallback)
	return v
}
