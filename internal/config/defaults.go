// Package config provides centralized configuration constants and helpers
// for omoictl. All default values should be defined here to ensure a single
// source of truth.
package config

// DefaultBackendURL is the backend API endpoint used when none is
// configured. Matches the backend's local development port.
const DefaultBackendURL = "http://localhost:8000"

// DefaultRequestTimeoutSeconds bounds each backend request.
const DefaultRequestTimeoutSeconds = 15

// Default slider bounds for the resource allocation cards. The backend does
// not publish provisioning limits, so these mirror its sandbox spawner
// defaults and can be overridden in config.
const (
	DefaultCPUMin  = 1
	DefaultCPUMax  = 16
	DefaultCPUStep = 1

	DefaultMemoryMin  = 1
	DefaultMemoryMax  = 64
	DefaultMemoryStep = 1

	DefaultDiskMin  = 5
	DefaultDiskMax  = 200
	DefaultDiskStep = 5
)
