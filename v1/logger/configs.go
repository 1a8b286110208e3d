package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls how the gateway logger is built.
type Config struct {
	// Level is one of debug, info, warning, error. Anything else means info.
	Level string `yaml:"level" env:"LOG_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" env:"PROJECT_NAME"`

	// Development switches to the console encoder with colored levels.
	Development bool `yaml:"development" env:"LOG_DEVELOPMENT"`

	// EnableTracing adds trace_id/span_id to the *WithContext methods.
	EnableTracing bool `yaml:"enable_tracing" env:"LOG_ENABLE_TRACING"`
}
