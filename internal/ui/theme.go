// Package ui provides the TXM parameter calculator application UI.
//
// This file defines a custom compact Fyne theme for a dense layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CalcTheme wraps the default Fyne theme with compact sizing overrides
// so that the full parameter and result tables fit on one screen.
type CalcTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewCalcTheme creates a new CalcTheme with the system default variant.
func NewCalcTheme() *CalcTheme {
	return &CalcTheme{
		base:    theme.DefaultTheme(),
		variant: 0, // system default
	}
}

// NewCalcThemeWithVariant creates a CalcTheme with a specific light/dark variant.
func NewCalcThemeWithVariant(variant fyne.ThemeVariant) *CalcTheme {
	return &CalcTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// SetVariant updates the theme variant (light/dark/system).
func (t *CalcTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// Color delegates to the base theme with the stored variant.
func (t *CalcTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *CalcTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *CalcTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides. The results tab stacks some two
// dozen label/value rows and the parameter tab four entry cards, so rows
// are tightened further than the default theme while keeping entry text
// legible.
func (t *CalcTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameHeadingText:
		return 17
	case theme.SizeNameSubHeadingText:
		return 13
	case theme.SizeNamePadding:
		return 2
	case theme.SizeNameInnerPadding:
		return 4
	case theme.SizeNameInlineIcon:
		return 14
	case theme.SizeNameScrollBar:
		return 10
	default:
		return t.base.Size(name)
	}
}

// VariantFromName maps a stored theme preference to a fyne variant.
// The second return is false for "system" and unknown names.
func VariantFromName(name string) (fyne.ThemeVariant, bool) {
	switch name {
	case "light":
		return theme.VariantLight, true
	case "dark":
		return theme.VariantDark, true
	}
	return theme.VariantLight, false
}
