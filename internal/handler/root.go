package handler

import (
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/labstack/echo/v4"
)

// RootMessage is returned by GET /.
const RootMessage = "Aurelia Interiors API running"

type RootResponse struct {
	Message string `json:"message"`
}

type RootHandler struct {
	Handler
}

func NewRootHandler(s *server.Server) *RootHandler {
	return &RootHandler{Handler: NewHandler(s)}
}

func (h *RootHandler) Root(c echo.Context) (*RootResponse, error) {
	return &RootResponse{Message: RootMessage}, nil
}
