// internal/httpcontroller/server.go
package httpcontroller

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/labstack/echo/v4"

	api "github.com/cinelog/cinelog-go/internal/api/v2"
	"github.com/cinelog/cinelog-go/internal/catalog"
	"github.com/cinelog/cinelog-go/internal/conf"
	"github.com/cinelog/cinelog-go/internal/datastore"
	"github.com/cinelog/cinelog-go/internal/logging"
	"github.com/cinelog/cinelog-go/internal/observability"
	"github.com/cinelog/cinelog-go/internal/review"
)

// Server encapsulates the Echo server and the wired API controller.
type Server struct {
	Echo     *echo.Echo
	DS       datastore.Interface
	Settings *conf.Settings
	Metrics  *observability.Metrics
	APIV2    *api.Controller

	webLogger      *slog.Logger
	webLoggerClose func() error
}

// New initializes a new HTTP server over the given datastore and services.
func New(settings *conf.Settings, dataStore datastore.Interface, catalogSvc *catalog.Service,
	reviewSvc *review.Service, metrics *observability.Metrics) *Server {

	s := &Server{
		Echo:     echo.New(),
		DS:       dataStore,
		Settings: settings,
		Metrics:  metrics,
	}

	s.Echo.HideBanner = true
	s.initLogger()

	s.APIV2 = api.New(s.Echo, settings, catalogSvc, reviewSvc, log.Default(), metrics)

	return s
}

// Start begins listening and serving HTTP requests.
func (s *Server) Start() {
	errChan := make(chan error)

	go func() {
		if err := s.Echo.Start(":" + s.Settings.WebServer.Port); err != nil {
			errChan <- err
		}
	}()

	go handleServerError(errChan)

	fmt.Printf("HTTP server started on port %s\n", s.Settings.WebServer.Port)
}

// Shutdown performs cleanup operations and gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.APIV2 != nil {
		s.APIV2.Shutdown()
	}

	if s.webLoggerClose != nil {
		if err := s.webLoggerClose(); err != nil {
			log.Printf("Error closing web log file: %v", err)
		}
	}

	return s.Echo.Close()
}

// initLogger sets up the structured logger for web operations.
func (s *Server) initLogger() {
	logger, closeFunc, err := logging.NewFileLogger("logs/webserver.log", "webserver", slog.LevelInfo)
	if err != nil {
		log.Printf("Warning: Failed to initialize webserver logger: %v", err)
		s.webLogger = logging.NewDiscardLogger()
		s.webLoggerClose = func() error { return nil }
		return
	}
	s.webLogger = logger
	s.webLoggerClose = closeFunc
}

// handleServerError listens for server errors and logs them.
func handleServerError(errChan chan error) {
	for err := range errChan {
		log.Printf("Server error: %v", err)
	}
}
