// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/aurelia-api/internal/handler"
	"github.com/deppfellow/aurelia-api/internal/middleware"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain and
// every route registered.
//
// Order matters: the request id comes first so every later layer can log
// it, New Relic must wrap EnhanceTracing and the context logger needs the
// transaction, and Recover sits innermost so panics reach the error handler
// as ordinary errors.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.Metrics.Observe(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)

	router.GET("/", handler.HandleQuery(h.Root.Handler, h.Root.Root, http.StatusOK))
	router.GET("/test", handler.HandleQuery(h.Diagnostics.Handler, h.Diagnostics.Report, http.StatusOK))

	api := router.Group("/api")
	api.POST("/contact", handler.Handle(h.Inquiry.Handler, h.Inquiry.CreateInquiry, http.StatusOK))
	api.GET("/projects", handler.HandleQuery(h.Project.Handler, h.Project.ListProjects, http.StatusOK))

	return router
}
