// Package site holds the storefront's presentation: themes, copy, outbound links and page rendering.
package site

import (
	"fmt"
	"html/template"

	"github.com/curations/storefront/internal/catalog"
)

// Theme is the palette and iconography of one category
type Theme struct {
	Name            string
	Icon            string
	Header          string
	Main            string
	Accent          string
	AccentDark      string
	AccentLight     string
	AccentSecondary string
	EmptyIcon       string
	Headline        string
	Tagline         string
	// Noun is used in "Explore our exclusive <Noun> collection"
	Noun string
	// CustomNoun is used in "I'd like a custom <CustomNoun>."
	CustomNoun string
}

var themes = map[catalog.Category]Theme{
	catalog.CategoryAccessories: {
		Name:            "EverGlow Accessories",
		Icon:            "✨",
		Header:          "linear-gradient(135deg, #2c1f1f 0%, #3a2a2a 100%)",
		Main:            "linear-gradient(135deg, #f5e6e6 0%, #faf8f3 100%)",
		Accent:          "#b76e79",
		AccentDark:      "#2c1f1f",
		AccentLight:     "#f5e6e6",
		AccentSecondary: "#d4af37",
		EmptyIcon:       "💎",
		Headline:        "✨ EverGlow Accessories",
		Tagline:         "Elegantly Crafted Collections",
		Noun:            "accessories",
		CustomNoun:      "accessory",
	},
	catalog.CategoryGifts: {
		Name:            "Gifts & Crafts Hub",
		Icon:            "🎁",
		Header:          "linear-gradient(135deg, #2d3f2a 0%, #3d4a36 100%)",
		Main:            "linear-gradient(135deg, #fdf7f4 0%, #fdf8f5 100%)",
		Accent:          "#d4698c",
		AccentDark:      "#2d3f2a",
		AccentLight:     "#fdf7f4",
		AccentSecondary: "#e8b4a8",
		EmptyIcon:       "🌸",
		Headline:        "🎁 Gifts & Crafts Hub",
		Tagline:         "Handcrafted with Love",
		Noun:            "gift",
		CustomNoun:      "gift",
	},
}

// ThemeFor returns the theme of c; unknown categories get the accessories theme
func ThemeFor(c catalog.Category) Theme {
	if t, ok := themes[c]; ok {
		return t
	}
	return themes[catalog.CategoryAccessories]
}

// Testimonial is a customer quote
type Testimonial struct {
	Quote string
	Name  string
	Tag   string
}

// Testimonials shown below the grid
var Testimonials = []Testimonial{
	{Quote: "Beautifully crafted and exactly as I envisioned.", Name: "Riya", Tag: "Custom bouquet"},
	{Quote: "Elegant accessories that elevated my outfit.", Name: "Aanya", Tag: "EverGlow client"},
	{Quote: "Quick response, thoughtful curation, great packaging.", Name: "Meera", Tag: "Gift hamper"},
}

// CSSVars declares the palette as custom properties
func (t Theme) CSSVars() template.CSS {
	return template.CSS(fmt.Sprintf(
		"--header: %s; --main: %s; --accent: %s; --accent-dark: %s; --accent-light: %s; --accent-secondary: %s;",
		t.Header, t.Main, t.Accent, t.AccentDark, t.AccentLight, t.AccentSecondary,
	))
}
