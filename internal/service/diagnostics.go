package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/aurelia-api/internal/config"
	"github.com/deppfellow/aurelia-api/internal/database"
	"github.com/deppfellow/aurelia-api/internal/lib/utils"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/rs/zerolog"
)

const (
	diagnosticsTimeout     = 5 * time.Second
	diagnosticsCollections = 10
	diagnosticsErrorLength = 50
)

// Diagnostic report values.
const (
	StatusRunning            = "✅ Running"
	StatusNotAvailable       = "❌ Not Available"
	StatusAvailable          = "✅ Available"
	StatusNotInitialized     = "⚠️  Available but not initialized"
	StatusConnectedWorking   = "✅ Connected & Working"
	StatusConnectedErrPrefix = "⚠️  Connected but Error: "
	StatusErrorPrefix        = "❌ Error: "
	StatusSet                = "✅ Set"
	StatusNotSet             = "❌ Not Set"
	ConnectionConnected      = "Connected"
	ConnectionNotConnected   = "Not Connected"
)

// DiagnosticsReport is the body of GET /test.
type DiagnosticsReport struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type DiagnosticsService struct {
	store  database.Store
	config *config.Config
	logger *zerolog.Logger
}

func NewDiagnosticsService(s *server.Server) *DiagnosticsService {
	return &DiagnosticsService{
		store:  s.DB,
		config: s.Config,
		logger: s.Logger,
	}
}

// Report describes the backend and database state. It never fails: every
// error, including a panic in the store, is rendered into the report.
func (s *DiagnosticsService) Report(ctx context.Context) *DiagnosticsReport {
	report := &DiagnosticsReport{
		Backend:          StatusRunning,
		Database:         StatusNotAvailable,
		ConnectionStatus: ConnectionNotConnected,
		Collections:      []string{},
	}

	s.probe(ctx, report)

	report.DatabaseURL = setStatus(s.config.HasDatabaseURL())
	report.DatabaseName = setStatus(s.config.HasDatabaseName())

	return report
}

func (s *DiagnosticsService) probe(ctx context.Context, report *DiagnosticsReport) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("recovered while building diagnostics")
			report.Database = StatusErrorPrefix + utils.Truncate(fmt.Sprint(r), diagnosticsErrorLength)
		}
	}()

	if s.store == nil {
		report.Database = StatusNotInitialized
		return
	}

	report.Database = StatusAvailable
	report.ConnectionStatus = ConnectionConnected

	ctx, cancel := context.WithTimeout(ctx, diagnosticsTimeout)
	defer cancel()

	names, err := s.store.ListCollectionNames(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("listing collections for diagnostics failed")
		report.Database = StatusConnectedErrPrefix + utils.Truncate(err.Error(), diagnosticsErrorLength)
		return
	}

	if len(names) > diagnosticsCollections {
		names = names[:diagnosticsCollections]
	}
	if names != nil {
		report.Collections = names
	}
	report.Database = StatusConnectedWorking
}

func setStatus(set bool) string {
	if set {
		return StatusSet
	}
	return StatusNotSet
}
