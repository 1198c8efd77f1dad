package playerbar

import (
	"strconv"
	"strings"
	"time"
)

// renderProgress renders a line progress bar of width cells.
func renderProgress(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	var ratio float64
	if duration > 0 {
		ratio = min(float64(position)/float64(duration), 1)
	}
	filled := min(int(float64(width)*ratio), width)
	return barFilledStyle.Render(strings.Repeat("━", filled)) +
		barEmptyStyle.Render(strings.Repeat("─", width-filled))
}

// FormatDuration formats d as m:ss, or h:mm:ss from one hour.
func FormatDuration(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmtHMS(h, m, s)
	}
	return fmtMS(int(d.Minutes()), s)
}

func fmtHMS(h, m, s int) string {
	return strconv.Itoa(h) + ":" + pad2(m) + ":" + pad2(s)
}

func fmtMS(m, s int) string {
	return strconv.Itoa(m) + ":" + pad2(s)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
