package handler

import (
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/deppfellow/aurelia-api/internal/service"
	"github.com/labstack/echo/v4"
)

type DiagnosticsHandler struct {
	Handler
	diagnostics *service.DiagnosticsService
}

func NewDiagnosticsHandler(s *server.Server, diagnostics *service.DiagnosticsService) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		Handler:     NewHandler(s),
		diagnostics: diagnostics,
	}
}

// Report serves GET /test. It never returns an error.
func (h *DiagnosticsHandler) Report(c echo.Context) (*service.DiagnosticsReport, error) {
	return h.diagnostics.Report(c.Request().Context()), nil
}
