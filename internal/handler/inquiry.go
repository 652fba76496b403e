package handler

import (
	"github.com/deppfellow/aurelia-api/internal/errs"
	"github.com/deppfellow/aurelia-api/internal/model"
	"github.com/deppfellow/aurelia-api/internal/server"
	"github.com/deppfellow/aurelia-api/internal/service"
	"github.com/deppfellow/aurelia-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// CreateInquiryRequest is the body of POST /api/contact.
type CreateInquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Validate applies the inquiry rules, so invalid submissions are
// rejected before any service or store call.
func (r *CreateInquiryRequest) Validate() error {
	_, err := model.NewInquiry(r.Name, r.Email, r.Message, r.Source)
	return err
}

type CreateInquiryResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type InquiryHandler struct {
	Handler
	inquiries *service.InquiryService
}

func NewInquiryHandler(s *server.Server, inquiries *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{
		Handler:   NewHandler(s),
		inquiries: inquiries,
	}
}

// CreateInquiry stores a contact-form submission. A storage failure is a
// 500 whose message is the underlying error text.
func (h *InquiryHandler) CreateInquiry(c echo.Context, req *CreateInquiryRequest) (*CreateInquiryResponse, error) {
	id, err := h.inquiries.Create(c.Request().Context(), req.Name, req.Email, req.Message, req.Source)
	if err != nil {
		if service.IsValidationError(err) {
			return nil, validation.FromError(err)
		}
		return nil, errs.NewInternalServerErrorWithMessage(err)
	}

	return &CreateInquiryResponse{Status: "ok", ID: id}, nil
}
