package instrumentation

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: inboxpilot)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Enabled determines if metrics are recorded and flushed at shutdown.
	// When false, the provider hands out no-op recorders.
	Enabled bool
}

// DefaultConfig returns the default instrumentation configuration.
func DefaultConfig(version string, enabled bool) Config {
	return Config{
		ServiceName:    "inboxpilot",
		ServiceVersion: version,
		Enabled:        enabled,
	}
}
