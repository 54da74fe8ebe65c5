package telemetry

// Common event names
const (
	EventCommandExecuted = "command_executed"
	EventCommandError    = "command_error"
	EventSettingsSaved   = "settings_saved"
	EventSettingsReset   = "settings_reset"
	EventAllocationApply = "allocation_applied"
	EventPanelOpened     = "panel_opened"
	EventSessionStart    = "session_start"
)
