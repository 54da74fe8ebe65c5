package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client records anonymous usage events. The cmd layer holds one for the
// lifetime of a command and closes it on exit.
type Client interface {
	// Track queues an event without blocking. No-op when telemetry is off.
	Track(event string, properties map[string]any)

	// Close flushes queued events. Must not stall command exit.
	Close() error
}

// Properties is a type alias for event properties.
type Properties = map[string]any

// captureSink is the slice of the PostHog SDK the client depends on, kept
// narrow so tests can record captures in memory.
type captureSink interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient queues events to PostHog keyed by the anonymous install ID.
type PostHogClient struct {
	client      captureSink
	config      *Config
	version     string
	mu          sync.RWMutex
	initialized bool
}

// ClientConfig holds what NewPostHogClient needs to connect.
type ClientConfig struct {
	// APIKey is the PostHog project API key. Empty disables the client.
	APIKey string

	// Version is the omoictl version stamped onto every event.
	Version string

	// Config carries the consent state and anonymous ID.
	Config *Config

	// Endpoint overrides the PostHog cloud endpoint for self-hosted setups.
	Endpoint string
}

// NewPostHogClient connects to PostHog. With an empty APIKey or nil Config
// it returns a client whose Track and Close are no-ops, so callers never
// branch on whether telemetry is configured.
func NewPostHogClient(cfg ClientConfig) (*PostHogClient, error) {
	if cfg.APIKey == "" || cfg.Config == nil {
		return &PostHogClient{
			config:      cfg.Config,
			version:     cfg.Version,
			initialized: false,
		}, nil
	}

	phConfig := posthog.Config{
		// A session produces at most a handful of events (panel opened,
		// settings saved, allocation applied), so flush small and often:
		// panels can stay open a long time and events should not wait for
		// the panel to close.
		BatchSize: 5,
		Interval:  2 * time.Second,
		// Transport noise must never mix into panel or table output.
		Logger: discardLogger{},
	}

	if cfg.Endpoint != "" {
		phConfig.Endpoint = cfg.Endpoint
	}

	client, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}

	return &PostHogClient{
		client:      client,
		config:      cfg.Config,
		version:     cfg.Version,
		initialized: true,
	}, nil
}

// newPostHogClientWithSink wires a client to a custom sink (for tests).
func newPostHogClientWithSink(sink captureSink, cfg *Config, version string) *PostHogClient {
	return &PostHogClient{
		client:      sink,
		config:      cfg,
		version:     version,
		initialized: true,
	}
}

// Track queues an event without blocking. No-op when the client is not
// initialized or consent is off.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized || c.config == nil || !c.config.IsEnabled() {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}

	// Every event carries the platform triple so version adoption and OS
	// breakdowns need no joins.
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("cli_version", c.version)

	// Keep events anonymous: no person profiles server-side.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.config.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes the queue via the SDK's own shutdown timeout.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// NoopClient satisfies Client while recording nothing. Used when the build
// carries no API key or the user opted out.
type NoopClient struct{}

// Track is a no-op.
func (c *NoopClient) Track(event string, properties map[string]any) {}

// Close is a no-op.
func (c *NoopClient) Close() error { return nil }

// NewNoopClient returns a client that records nothing.
func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

// discardLogger drops the PostHog SDK's own log lines.
type discardLogger struct{}

func (discardLogger) Debugf(string, ...interface{}) {}
func (discardLogger) Logf(string, ...interface{})   {}
func (discardLogger) Warnf(string, ...interface{})  {}
func (discardLogger) Errorf(string, ...interface{}) {}
