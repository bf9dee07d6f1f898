package render

import (
	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

// Style is a colour scheme.
type Style struct {
	Name       string
	Background string
	Edge       string
	Text       string
	Stroke     string
	Palette    map[layout.Category]string
}

// Fill returns the node colour for a category.
func (s Style) Fill(c layout.Category) string {
	if col, ok := s.Palette[c]; ok {
		return col
	}
	return s.Palette[layout.CategoryNone]
}

// Built-in styles.
var (
	Light = Style{
		Name:       graph.StyleLight,
		Background: "#ffffff",
		Edge:       "#9aa5b1",
		Text:       "#1f2933",
		Stroke:     "#1f2933",
		Palette: map[layout.Category]string{
			layout.CategoryNone:      "#cbd2d9",
			layout.CategoryMain:      "#e63946",
			layout.CategoryAltWallet: "#f4a261",
			layout.CategoryCEX:       "#2a9d8f",
			layout.CategoryDeFi:      "#457b9d",
			layout.CategoryBridge:    "#8d6cab",
			layout.CategoryMixer:     "#3d405b",
			layout.CategoryContract:  "#7b8794",
			layout.CategoryFlagged:   "#d00000",
		},
	}
	Dark = Style{
		Name:       graph.StyleDark,
		Background: "#111827",
		Edge:       "#4b5563",
		Text:       "#e5e7eb",
		Stroke:     "#f9fafb",
		Palette: map[layout.Category]string{
			layout.CategoryNone:      "#6b7280",
			layout.CategoryMain:      "#f87171",
			layout.CategoryAltWallet: "#fbbf24",
			layout.CategoryCEX:       "#34d399",
			layout.CategoryDeFi:      "#60a5fa",
			layout.CategoryBridge:    "#c084fc",
			layout.CategoryMixer:     "#a8a29e",
			layout.CategoryContract:  "#9ca3af",
			layout.CategoryFlagged:   "#ef4444",
		},
	}
)

// LookupStyle returns the built-in style called name. The empty name selects
// Light.
func LookupStyle(name string) (Style, error) {
	switch name {
	case "", graph.StyleLight:
		return Light, nil
	case graph.StyleDark:
		return Dark, nil
	}
	return Style{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want %s or %s)", name, graph.StyleLight, graph.StyleDark)
}
