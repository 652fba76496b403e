package model

import "strings"

// DefaultInquirySource is recorded when a submission does not name its source.
const DefaultInquirySource = "website"

// Inquiry is a contact-form submission. It is immutable once created.
type Inquiry struct {
	Name    string `json:"name" validate:"required,min=2,max=80"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
	Source  string `json:"source" validate:"required"`
}

// NewInquiry builds a validated Inquiry. An empty source becomes
// DefaultInquirySource. The returned error is a validator.ValidationErrors.
func NewInquiry(name, email, message, source string) (*Inquiry, error) {
	if strings.TrimSpace(source) == "" {
		source = DefaultInquirySource
	}

	inquiry := &Inquiry{
		Name:    name,
		Email:   email,
		Message: message,
		Source:  source,
	}
	if err := validate.Struct(inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

// Fields returns the inquiry as a schema-less document body.
func (i *Inquiry) Fields() map[string]any {
	return map[string]any{
		"name":    i.Name,
		"email":   i.Email,
		"message": i.Message,
		"source":  i.Source,
	}
}
