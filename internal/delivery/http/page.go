package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/energy/internal/domain"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Page states
const (
	StateIdle    = "idle"
	StateSuccess = "success"
	StateError   = "error"
)

// PageView is everything the form page needs for one render pass
type PageView struct {
	State      string
	Ready      bool
	ModelError string
	ModelHint  string
	ModelName  string
	Controls   []Control
	Estimate   *domain.Estimate
	Error      string
}

func renderPage(c *fiber.Ctx, status int, view PageView) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return fmt.Errorf("http: failed to render page: %w", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
