package api

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"

	"imds-capstone/backend/internal/report"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func loadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"join":    strings.Join,
		"percent": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// renderPage renders name with data plus the fields every page layout reads.
func (s *Server) renderPage(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := c.Get(usernameKey); ok {
		data["user"] = user
	}
	data["disclaimer"] = report.Disclaimer
	c.HTML(status, name, data)
}
