package control

import "github.com/1broseidon/relic/internal/platform"

// Style is the visual part of a control. Empty colors inherit the theme.
type Style struct {
	name       string
	background string
	foreground string
	font       string
	fontSize   int
}

func newStyle(opts Options) Style {
	s := Style{
		name:       opts.Name,
		background: opts.BackgroundColor,
		foreground: opts.ForegroundColor,
		font:       opts.Font,
		fontSize:   opts.FontSize,
	}
	if s.fontSize == 0 {
		s.fontSize = DefaultFontSize
	}
	return s
}

func (s Style) drawable() platform.Style {
	return platform.Style{
		Background: s.background,
		Foreground: s.foreground,
		Font:       s.font,
		FontSize:   s.fontSize,
	}
}
