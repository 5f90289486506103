package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

var dashboardSections = []string{"overview", "leads", "calendar", "analytics", "profile"}

type AppWebHandler struct {
	apiBase string
}

func NewAppWebHandler(apiBase string) *AppWebHandler {
	return &AppWebHandler{apiBase: strings.TrimRight(apiBase, "/")}
}

func (h *AppWebHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "base", gin.H{
		"Page":    "login",
		"Title":   "Sign in",
		"Section": "",
		"APIBase": h.apiBase,
	})
}

// Dashboard serves /dashboard and /dashboard/<section>; unknown sections
// fall back to the overview.
func (h *AppWebHandler) Dashboard(c *gin.Context) {
	section := strings.Trim(c.Param("section"), "/")
	if !validSection(section) {
		section = dashboardSections[0]
	}

	c.HTML(http.StatusOK, "base", gin.H{
		"Page":     "dashboard",
		"Title":    "Dashboard",
		"Section":  section,
		"Sections": dashboardSections,
		"APIBase":  h.apiBase,
	})
}

func validSection(s string) bool {
	for _, known := range dashboardSections {
		if s == known {
			return true
		}
	}
	return false
}
