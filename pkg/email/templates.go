package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names as constants for type safety.
const (
	TemplateContactAdmin      = "contact_admin.html"
	TemplateContactAck        = "contact_ack.html"
	TemplateVolunteerAdmin    = "volunteer_admin.html"
	TemplateVolunteerAck      = "volunteer_ack.html"
	TemplateItemDonationAdmin = "item_donation_admin.html"
	TemplateItemDonationAck   = "item_donation_ack.html"
)

// Branding is the organisation shown in acknowledgment emails.
type Branding struct {
	OrgName string
	SiteURL string
	LogoURL string
}

// TemplateData is passed to every template. Form holds the submission record.
type TemplateData struct {
	Branding
	Form             any
	DeliveryRequired bool
}

// Renderer executes the embedded HTML templates. User input is escaped by
// html/template.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// MustNewRenderer panics if the embedded templates do not parse.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template.
func (r *Renderer) Render(name string, data TemplateData) (string, error) {
	var body bytes.Buffer
	if err := r.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute email template %s: %w", name, err)
	}
	return body.String(), nil
}
