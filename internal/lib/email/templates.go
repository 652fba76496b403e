package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateInquiryReceived corresponds to templates/inquiry_received.html
	TemplateInquiryReceived Template = "inquiry_received"
)

// InquiryData is rendered into TemplateInquiryReceived.
type InquiryData struct {
	InquiryID string
	Name      string
	Email     string
	Message   string
	Source    string
}

// PreviewInquiry is sample data for rendering the inquiry template locally.
var PreviewInquiry = InquiryData{
	InquiryID: "665f1c2ab1e4a1d2c3b4a596",
	Name:      "Jane Doe",
	Email:     "jane@example.com",
	Message:   "We are renovating a two-bedroom apartment and would love a consultation.",
	Source:    "website",
}
