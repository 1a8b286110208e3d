package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" env:"PROJECT_NAME"`

	// AppEnv is recorded as deployment.environment.
	AppEnv string `yaml:"app_env" env:"ENVIRONMENT"`

	// EnableExport ships spans over OTLP/HTTP. When false spans are created
	// and propagated but never exported.
	EnableExport bool `yaml:"enable_export" env:"TRACING_ENABLED"`

	// Endpoint overrides the OTLP/HTTP collector URL. Empty means the
	// exporter's own default / OTEL_EXPORTER_OTLP_* environment.
	Endpoint string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}
