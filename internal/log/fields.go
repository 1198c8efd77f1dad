package log

// Canonical field names for structured logging.
const (
	FieldComponent = "component"
	FieldMediaID   = "media_id"
	FieldKind      = "kind"
	FieldState     = "state"
	FieldOldState  = "old_state"
	FieldNewState  = "new_state"
	FieldPosition  = "position"
	FieldDuration  = "duration"
	FieldCommand   = "command"
	FieldDecision  = "decision"
	FieldPath      = "path"
)
