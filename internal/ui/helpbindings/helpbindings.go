// Package helpbindings renders the scrollable list of key bindings.
package helpbindings

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/llehouerou/gallery/internal/keymap"
	"github.com/llehouerou/gallery/internal/ui/styles"
)

// categoryOrder defines the display order of binding categories.
var categoryOrder = []string{"global", "gallery", "playback", "zoom"}

var categoryLabels = map[string]string{
	"global":   "Global",
	"gallery":  "Gallery",
	"playback": "Playback",
	"zoom":     "Zoom",
}

// Model holds the state of the help view.
type Model struct {
	bindings     []keymap.Binding
	width        int
	height       int
	scrollOffset int
}

// New creates a help view listing every binding.
func New() Model {
	var bindings []keymap.Binding
	for _, ctx := range categoryOrder {
		bindings = append(bindings, keymap.ByContext(ctx)...)
	}
	return Model{bindings: bindings}
}

// SetSize sets the area available to the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scrollOffset = min(m.scrollOffset, m.maxScroll())
}

// HandleKey scrolls on j/k and reports whether key closes the view.
func (m *Model) HandleKey(key string) (closed bool) {
	switch key {
	case "?", "esc", "q":
		m.scrollOffset = 0
		return true
	case "j", "down":
		m.scrollOffset = min(m.scrollOffset+1, m.maxScroll())
	case "k", "up":
		m.scrollOffset = max(m.scrollOffset-1, 0)
	}
	return false
}

// ScrollOffset returns the first visible line.
func (m Model) ScrollOffset() int {
	return m.scrollOffset
}

// View renders the visible part of the list with its title and footer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	st := styles.T().S()

	lines := strings.Split(m.buildContent(), "\n")
	maxWidth := lo.Max(lo.Map(lines, func(l string, _ int) int { return lipgloss.Width(l) }))

	start := min(m.scrollOffset, len(lines))
	end := min(start+m.visibleHeight(), len(lines))
	visible := lines[start:end]
	for i, line := range visible {
		if w := lipgloss.Width(line); w < maxWidth {
			visible[i] = line + strings.Repeat(" ", maxWidth-w)
		}
	}

	var b strings.Builder
	b.WriteString(st.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(visible, "\n"))
	b.WriteString("\n\n")
	b.WriteString(st.Subtle.Render(m.footer(len(lines))))
	return st.Panel.Render(b.String())
}

func (m Model) buildContent() string {
	st := styles.T().S()

	maxKeyWidth := lo.Max(lo.Map(m.bindings, func(b keymap.Binding, _ int) int {
		return lipgloss.Width(keyLabel(b))
	}))

	var sb strings.Builder
	current := ""
	for _, b := range m.bindings {
		if b.Context != current {
			if current != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(st.Warning.Bold(true).Render(categoryLabels[b.Context]))
			sb.WriteString("\n")
			sb.WriteString(st.Subtle.Render(strings.Repeat("─", maxKeyWidth+15)))
			sb.WriteString("\n")
			current = b.Context
		}
		key := keyLabel(b)
		sb.WriteString(st.Accent.Render(key + strings.Repeat(" ", maxKeyWidth-lipgloss.Width(key))))
		sb.WriteString("  ")
		sb.WriteString(st.Base.Render(b.Description))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// keyLabel joins the keys of b for display.
func keyLabel(b keymap.Binding) string {
	return keymap.LabelAll(b.Keys)
}

func (m Model) footer(total int) string {
	if total <= m.visibleHeight() {
		return "?/esc close"
	}
	return "j/k scroll · ?/esc close"
}

func (m Model) visibleHeight() int {
	// title, footer, border and padding
	return max(m.height-8, 5)
}

func (m Model) totalLines() int {
	return strings.Count(m.buildContent(), "\n") + 1
}

func (m Model) maxScroll() int {
	return max(m.totalLines()-m.visibleHeight(), 0)
}
