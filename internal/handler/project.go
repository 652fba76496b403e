package handler

import (
	"github.com/deppfellow/aurelia-api/internal/model"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/deppfellow/aurelia-api/internal/service"
	"github.com/labstack/echo/v4"
)

type ProjectHandler struct {
	Handler
	projects *service.ProjectService
}

func NewProjectHandler(s *server.Server, projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		Handler:  NewHandler(s),
		projects: projects,
	}
}

// ListProjects serves GET /api/projects. The list is never empty.
func (h *ProjectHandler) ListProjects(c echo.Context) ([]model.Project, error) {
	return h.projects.List(c.Request().Context()), nil
}
