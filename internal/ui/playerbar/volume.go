package playerbar

import (
	"fmt"

	"github.com/llehouerou/gallery/internal/icons"
)

// RenderVolume renders the volume indicator, e.g. "vol  80%" or "muted".
func RenderVolume(volume float64, muted bool) string {
	if muted {
		return mutedStyle.Render(icons.Muted() + "muted")
	}
	return progressTimeStyle.Render(fmt.Sprintf("vol %3d%%", int(volume*100+0.5)))
}
