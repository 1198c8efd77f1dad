package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/gallery/internal/ui/styles"
)

var (
	theme = styles.T()

	barStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border)

	titleStyle        = lipgloss.NewStyle().Foreground(theme.FgBase).Bold(true)
	infoStyle         = lipgloss.NewStyle().Foreground(theme.FgMuted)
	progressTimeStyle = lipgloss.NewStyle().Foreground(theme.FgBase)
	barFilledStyle    = lipgloss.NewStyle().Foreground(theme.Primary)
	barEmptyStyle     = lipgloss.NewStyle().Foreground(theme.FgSubtle)
	mutedStyle        = lipgloss.NewStyle().Foreground(theme.Warning)
)
