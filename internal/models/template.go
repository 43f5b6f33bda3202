package models

// ContactEmailPlaceholder is replaced in UnsubscribeMessage with the
// configured contact address.
const ContactEmailPlaceholder = "{CONTACT_EMAIL}"

// EmailTemplate is the singleton configuration used to compose calendar emails.
type EmailTemplate struct {
	Subject            string   `json:"subject" validate:"required"`
	Greeting           string   `json:"greeting"`
	MainMessage        string   `json:"main_message"`
	PDFDescription     string   `json:"pdf_description"`
	Features           []string `json:"features"`
	ClosingMessage     string   `json:"closing_message"`
	Signature          string   `json:"signature"`
	UnsubscribeMessage string   `json:"unsubscribe_message"`
	FooterMessage      string   `json:"footer_message"`
}
