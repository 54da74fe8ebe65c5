package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Backend   BackendConfig   `mapstructure:"backend" validate:"required"`
	Project   ProjectConfig   `mapstructure:"project"`
	Resources ResourcesConfig `mapstructure:"resources"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// BackendConfig holds connection settings for the orchestration backend.
type BackendConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// RequestTimeoutSeconds controls the HTTP client timeout for backend calls
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=1,max=600"`
}

// ProjectConfig selects the default project for settings commands.
type ProjectConfig struct {
	ID string `mapstructure:"id" validate:"omitempty,min=1"`
}

// ResourcesConfig holds the slider bounds for the allocation cards. The
// backend does not publish provisioning limits, so they are configured
// client-side.
type ResourcesConfig struct {
	CPU    BoundsConfig `mapstructure:"cpu"`
	Memory BoundsConfig `mapstructure:"memory"`
	Disk   BoundsConfig `mapstructure:"disk"`
}

// BoundsConfig is one field's {min, max, step} triple.
type BoundsConfig struct {
	Min  int `mapstructure:"min" validate:"omitempty,min=0"`
	Max  int `mapstructure:"max" validate:"omitempty,gtefield=Min"`
	Step int `mapstructure:"step" validate:"omitempty,min=1"`
}

// TelemetryConfig controls anonymous usage analytics.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
