package endpoints

import (
	"github.com/jackzampolin/labrelay/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// SwaggerHost overrides the host advertised in /swagger.json.
	SwaggerHost string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&RootEndpoint{},
		&HealthEndpoint{},
		&MetricsEndpoint{},

		// Report endpoints
		&UploadEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{Host: cfg.SwaggerHost},
		&SwaggerUIEndpoint{},

		// Embedded upload page
		&StaticEndpoint{},
	}
}
