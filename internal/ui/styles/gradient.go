package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient colors text one grapheme cluster at a time, blending in HCL
// from From to To.
type Gradient struct {
	From, To lipgloss.Color
	Bold     bool
}

// Render returns text with the gradient applied.
func (g Gradient) Render(text string) string {
	clusters := graphemes(text)
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return g.style(g.From).Render(text)
	}

	var b strings.Builder
	for i, stop := range g.stops(len(clusters)) {
		b.WriteString(g.style(lipgloss.Color(stop.Hex())).Render(clusters[i]))
	}
	return b.String()
}

func (g Gradient) style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(g.Bold)
}

// stops returns n colors, the first From and the last To.
func (g Gradient) stops(n int) []colorful.Color {
	from, to := hexColor(g.From), hexColor(g.To)
	if n < 2 {
		return []colorful.Color{from}
	}
	out := make([]colorful.Color, n)
	for i := range n {
		out[i] = from.BlendHcl(to, float64(i)/float64(n-1)).Clamped()
	}
	return out
}

// hexColor parses a "#rrggbb" color. Palette indices have no RGB value and
// blend as mid gray.
func hexColor(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return col
}

func graphemes(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}
