package models

import (
	"fmt"
	"strings"
)

// Color names a swatch of the fixed palette.
type Color string

// Swatch is a palette entry with light and dark mode hex values.
type Swatch struct {
	Name  Color
	Light string
	Dark  string
}

// Palette is the closed set of indicator colors.
var Palette = []Swatch{
	{Name: "Green", Light: "#40a02b", Dark: "#a6e3a1"},
	{Name: "Yellow", Light: "#df8e1d", Dark: "#f9e2af"},
	{Name: "Red", Light: "#d20f39", Dark: "#f38ba8"},
	{Name: "Blue", Light: "#1e66f5", Dark: "#89b4fa"},
	{Name: "Pink", Light: "#ea76cb", Dark: "#f5c2e7"},
	{Name: "Teal", Light: "#179299", Dark: "#94e2d5"},
	{Name: "Lavender", Light: "#7287fd", Dark: "#b4befe"},
	{Name: "Maroon", Light: "#e64553", Dark: "#eba0ac"},
	{Name: "Peach", Light: "#fe640b", Dark: "#fab387"},
	{Name: "Sky", Light: "#04a5e5", Dark: "#89dceb"},
	{Name: "Sapphire", Light: "#209fb5", Dark: "#74c7ec"},
	{Name: "Rosewater", Light: "#dc8a78", Dark: "#f5e0dc"},
}

const (
	ColorGreen    Color = "Green"
	ColorYellow   Color = "Yellow"
	ColorRed      Color = "Red"
	ColorBlue     Color = "Blue"
	ColorLavender Color = "Lavender"
)

// DefaultColor is used when an indicator is created without a color.
const DefaultColor = ColorGreen

// LookupColor returns the swatch for c.
func LookupColor(c Color) (Swatch, bool) {
	for _, s := range Palette {
		if s.Name == c {
			return s, true
		}
	}
	return Swatch{}, false
}

// ParseColor resolves a palette name case-insensitively to its canonical form.
func ParseColor(s string) (Color, error) {
	name := strings.TrimSpace(s)
	for _, sw := range Palette {
		if strings.EqualFold(string(sw.Name), name) {
			return sw.Name, nil
		}
	}
	return "", fmt.Errorf("unknown color %q", s)
}
