package service

import (
	"github.com/deppfellow/aurelia-api/internal/repository"
	"github.com/deppfellow/aurelia-api/internal/server"
)

type Services struct {
	Inquiry     *InquiryService
	Project     *ProjectService
	Diagnostics *DiagnosticsService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	inquiryService := NewInquiryService(s, repos.Inquiry)
	if s.Job != nil {
		inquiryService.notifier = s.Job
	}

	return &Services{
		Inquiry:     inquiryService,
		Project:     NewProjectService(s, repos.Project),
		Diagnostics: NewDiagnosticsService(s),
	}
}
