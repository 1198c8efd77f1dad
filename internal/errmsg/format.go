// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Gallery operations
	OpScanFolder Op = "scan folder"
	OpOpenItem   Op = "open item"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpDuration      Op = "read duration"
	OpMetadata      Op = "read metadata"

	// State
	OpStateLoad Op = "load saved state"
	OpStateSave Op = "save state"

	// Media controls
	OpMediaControls Op = "start media controls"

	// Initialization
	OpInitialize Op = "initialize application"
)

// playbackOps maps the operation names carried by playback error events.
var playbackOps = map[string]Op{
	"seek":     OpPlaybackSeek,
	"duration": OpDuration,
	"metadata": OpMetadata,
	"play":     OpPlaybackStart,
}

// ForPlayback returns the Op for a playback error event operation name.
func ForPlayback(operation string) Op {
	if op, ok := playbackOps[operation]; ok {
		return op
	}
	return Op(operation)
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
