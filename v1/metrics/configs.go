package metrics

// Config controls the Prometheus registry.
type Config struct {
	// Address, when set, starts a dedicated listener for /metrics (e.g. ":9090").
	// When empty the handler is only mounted on the gateway's HTTP server.
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers Go runtime and process collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// ServiceName is attached as the constant "service" label.
	ServiceName string `yaml:"service_name" env:"PROJECT_NAME"`

	// Namespace prefixes every gateway metric name.
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE"`
}
