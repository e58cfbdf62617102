package endpoints

import (
	"github.com/mbenito/docueval/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},

		// Report endpoints
		&GenerateEndpoint{},
		&GetReportEndpoint{},
		&SectionsEndpoint{},
		&EditEndpoint{},
		&SaveEndpoint{},
		&CancelEndpoint{},

		// Schema and call history endpoints
		&ResolveSchemaEndpoint{},
		&ListCallsEndpoint{},
	}
}

// ReportCommands returns endpoints whose CLI commands group under "reports".
func ReportCommands() []api.Endpoint {
	return []api.Endpoint{
		&GenerateEndpoint{},
		&GetReportEndpoint{},
		&SectionsEndpoint{},
		&EditEndpoint{},
		&SaveEndpoint{},
		&CancelEndpoint{},
	}
}
