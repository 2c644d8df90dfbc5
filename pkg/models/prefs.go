package models

// Preferences holds per-user dashboard settings. The whole record is
// replaced on every save.
type Preferences struct {
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	AutoSave      bool   `json:"auto_save"`
	Notifications bool   `json:"notifications"`
	Telemetry     bool   `json:"telemetry"`
}

// DefaultPreferences returns the record used when nothing has been
// stored yet, or when the stored record cannot be parsed.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         "dark",
		Language:      "javascript",
		AutoSave:      true,
		Notifications: true,
		Telemetry:     false,
	}
}

// PluginSetting is the stored state for a single plugin.
type PluginSetting struct {
	Enabled bool           `json:"enabled"`
	Config  map[string]any `json:"config,omitempty"`
}
