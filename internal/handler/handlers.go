package handler

import (
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/deppfellow/aurelia-api/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one value.
type Handlers struct {
	Root        *RootHandler
	Diagnostics *DiagnosticsHandler
	Inquiry     *InquiryHandler
	Project     *ProjectHandler
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Root:        NewRootHandler(s),
		Diagnostics: NewDiagnosticsHandler(s, services.Diagnostics),
		Inquiry:     NewInquiryHandler(s, services.Inquiry),
		Project:     NewProjectHandler(s, services.Project),
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
	}
}
