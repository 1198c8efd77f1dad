//go:build windows

// Package stderr provides a no-op implementation for Windows.
// Windows audio backends don't write to fd 2.
package stderr

import (
	"os"

	"github.com/rs/zerolog"
)

// Start is a no-op on Windows.
func Start(_ zerolog.Logger) error {
	return nil
}

// WriteOriginal writes to stderr.
func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on Windows.
func Stop() {}
