package imageview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// Kitty graphics protocol escape sequences
const (
	escStart  = "\x1b_G"
	escEnd    = "\x1b\\"
	chunkSize = 4096
)

// transmit encodes img as PNG and returns the sequence storing it in the
// terminal under id without displaying it.
func transmit(img image.Image, id uint32) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	var sb strings.Builder
	for i := 0; i < len(encoded); i += chunkSize {
		end := min(i+chunkSize, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}

		sb.WriteString(escStart)
		if i == 0 {
			// a=t transmit only, f=100 PNG, q=2 quiet
			fmt.Fprintf(&sb, "a=t,f=100,i=%d,q=2,m=%d;", id, more)
		} else {
			fmt.Fprintf(&sb, "m=%d;", more)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteString(escEnd)
	}
	return sb.String(), nil
}

// place displays a transmitted image at the 1-based cell (row, col). The
// fixed placement id replaces the previous placement.
func place(id uint32, row, col, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	fmt.Fprintf(&sb, "%sa=p,i=%d,p=1,c=%d,r=%d,C=1,q=2;%s", escStart, id, width, height, escEnd)
	sb.WriteString("\x1b[u")
	return sb.String()
}

// remove deletes an image and its placements.
func remove(id uint32) string {
	return fmt.Sprintf("%sa=d,d=i,i=%d,q=2;%s", escStart, id, escEnd)
}

// Blank returns width x height spaces, used in the layout in place of the
// image so lipgloss never measures escape sequences.
func Blank(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
