package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imds-capstone/backend/internal/report"
	"imds-capstone/backend/internal/scoring"
	"imds-capstone/backend/internal/session"
	"imds-capstone/backend/internal/util"
)

const maxBodyBytes = 1 << 20

// Config defines server dependencies.
type Config struct {
	Codec          session.Codec
	Service        *report.Service
	DemoUsername   string
	DemoPassword   string
	CookieSecure   bool
	CookieSameSite http.SameSite
	AllowedOrigins []string
}

// Server wires HTTP handlers with the session codec and the analysis pipeline.
type Server struct {
	codec          session.Codec
	service        *report.Service
	demoUsername   string
	demoPassword   string
	cookieSecure   bool
	cookieSameSite http.SameSite
	allowedOrigins []string
	metrics        *metrics
}

// NewServer constructs the HTTP server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Codec == nil {
		return nil, errors.New("session codec required")
	}
	if cfg.Service == nil {
		return nil, errors.New("report service required")
	}
	if strings.TrimSpace(cfg.DemoUsername) == "" || cfg.DemoPassword == "" {
		return nil, errors.New("demo credentials required")
	}
	sameSite := cfg.CookieSameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	if sameSite == http.SameSiteNoneMode && !cfg.CookieSecure {
		logrus.Warn("SameSite=None without Secure; browsers will drop the session cookie")
	}
	return &Server{
		codec:          cfg.Codec,
		service:        cfg.Service,
		demoUsername:   strings.TrimSpace(cfg.DemoUsername),
		demoPassword:   cfg.DemoPassword,
		cookieSecure:   cfg.CookieSecure,
		cookieSameSite: sameSite,
		allowedOrigins: cfg.AllowedOrigins,
		metrics:        newMetrics(),
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), limitBodySize(maxBodyBytes))

	if len(s.allowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowCredentials = true
		corsCfg.AllowOrigins = s.allowedOrigins
		corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
		corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		r.Use(cors.New(corsCfg))
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))

	r.GET(loginPath, s.handleLoginPage)
	r.POST(loginPath, s.handleLogin)
	r.GET("/logout", s.handleLogout)
	r.POST("/logout", s.handleLogout)

	pages := r.Group("/", s.requireSession(redirectToLogin))
	{
		pages.GET("/", s.handleDashboard)
		pages.GET("/about", s.handleAbout)
		pages.GET("/module/icd", s.handleModulePage(moduleICD))
		pages.POST("/module/icd", s.handleModuleSubmit(moduleICD))
		pages.GET("/module/immuno", s.handleModulePage(moduleImmuno))
		pages.POST("/module/immuno", s.handleModuleSubmit(moduleImmuno))
		pages.GET("/module/ai", s.handleModulePage(moduleAI))
		pages.POST("/module/ai", s.handleModuleSubmit(moduleAI))
		pages.GET("/module/reports", s.handleModulePage(moduleReports))
		pages.POST("/module/reports", s.handleModuleSubmit(moduleReports))
		pages.GET("/module/reports/download", s.handleReportDownload)
	}

	api := r.Group("/api", s.requireSession(rejectJSON))
	{
		api.POST("/icd", s.handleAPICandidates)
		api.POST("/immuno", s.handleAPIProfile)
		api.POST("/ai", s.handleAPIExplain)
		api.POST("/reports", s.handleAPIReport)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDashboard(c *gin.Context) {
	s.renderPage(c, http.StatusOK, "dashboard.tmpl", gin.H{
		"narrativeEnabled": s.service.NarrativeEnabled(),
	})
}

func (s *Server) handleAbout(c *gin.Context) {
	s.renderPage(c, http.StatusOK, "about.tmpl", gin.H{
		"disclaimer": report.Disclaimer,
		"notes":      scoring.ImmuneNotes,
	})
}

type module struct {
	name     string
	template string
}

var (
	moduleICD     = module{name: "icd", template: "module_icd.tmpl"}
	moduleImmuno  = module{name: "immuno", template: "module_immuno.tmpl"}
	moduleAI      = module{name: "ai", template: "module_ai.tmpl"}
	moduleReports = module{name: "reports", template: "module_reports.tmpl"}
)

func (s *Server) handleModulePage(m module) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderPage(c, http.StatusOK, m.template, gin.H{"symptoms": ""})
	}
}

func (s *Server) handleModuleSubmit(m module) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SymptomsRequest
		if err := c.ShouldBind(&req); err != nil {
			s.renderPage(c, http.StatusBadRequest, m.template, gin.H{"symptoms": "", "error": "Please describe the symptoms."})
			return
		}
		s.metrics.observeModule(m.name)

		data := gin.H{"symptoms": req.Symptoms}
		switch m {
		case moduleICD:
			data["results"] = s.service.Analyze(req.Symptoms).Candidates
		case moduleImmuno:
			profile := s.service.Analyze(req.Symptoms).Profile
			data["profile"] = &profile
		case moduleAI:
			explanation := s.service.Explain(c.Request.Context(), req.Symptoms)
			s.metrics.observeNarrative(explanation.Outcome)
			data["explanation"] = &explanation
		case moduleReports:
			rep := s.service.Report(c.Request.Context(), req.Symptoms)
			s.metrics.observeNarrative(rep.Outcome)
			data["report"] = &rep
		}
		s.renderPage(c, http.StatusOK, m.template, data)
	}
}

func (s *Server) handleReportDownload(c *gin.Context) {
	symptoms := c.Query("symptoms")
	if strings.TrimSpace(symptoms) == "" {
		c.String(http.StatusBadRequest, "symptoms query parameter is required")
		return
	}
	s.metrics.observeModule(moduleReports.name)
	rep := s.service.Report(c.Request.Context(), symptoms)
	s.metrics.observeNarrative(rep.Outcome)
	c.Header("Content-Disposition", `attachment; filename="imds-report.txt"`)
	c.String(http.StatusOK, rep.Text)
}

func (s *Server) handleAPICandidates(c *gin.Context) {
	req, ok := s.bindJSON(c)
	if !ok {
		return
	}
	s.metrics.observeModule(moduleICD.name)
	analysis := s.service.Analyze(req.Symptoms)
	c.JSON(http.StatusOK, CandidatesResponse{Symptoms: req.Symptoms, Candidates: analysis.Candidates})
}

func (s *Server) handleAPIProfile(c *gin.Context) {
	req, ok := s.bindJSON(c)
	if !ok {
		return
	}
	s.metrics.observeModule(moduleImmuno.name)
	analysis := s.service.Analyze(req.Symptoms)
	c.JSON(http.StatusOK, ProfileResponse{Symptoms: req.Symptoms, Profile: analysis.Profile})
}

func (s *Server) handleAPIExplain(c *gin.Context) {
	req, ok := s.bindJSON(c)
	if !ok {
		return
	}
	s.metrics.observeModule(moduleAI.name)
	explanation := s.service.Explain(c.Request.Context(), req.Symptoms)
	s.metrics.observeNarrative(explanation.Outcome)
	c.JSON(http.StatusOK, ExplanationResponse{Explanation: explanation})
}

func (s *Server) handleAPIReport(c *gin.Context) {
	req, ok := s.bindJSON(c)
	if !ok {
		return
	}
	s.metrics.observeModule(moduleReports.name)
	rep := s.service.Report(c.Request.Context(), req.Symptoms)
	s.metrics.observeNarrative(rep.Outcome)
	c.JSON(http.StatusOK, ReportResponse{Report: rep})
}

func (s *Server) bindJSON(c *gin.Context) (SymptomsRequest, bool) {
	var req SymptomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, errors.New("symptoms is required"))
		return req, false
	}
	return req, true
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := util.StartTimer()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"elapsed_ms": timer.ElapsedMs(),
		}).Info("request")
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
