package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"imds-capstone/backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret:  "secret",
		DemoUsername:   "admin",
		DemoPassword:   "admin123",
		CookieSameSite: http.SameSiteLaxMode,
		Narrative:      config.Narrative{Provider: "gemini"},
	}
}

func TestRouterHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(testConfig())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestBuildRouterLoadsCandidateTable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	cfg := testConfig()
	cfg.CandidatesPath = filepath.Join(dir, "missing.json")
	if _, err := buildRouter(cfg); err == nil {
		t.Fatal("expected error for missing candidate table")
	}

	path := filepath.Join(dir, "table.json")
	if err := os.WriteFile(path, []byte(`[{"code":"R50.9","title":"Fever, unspecified","keywords":["fever"]}]`), 0o600); err != nil {
		t.Fatalf("write table: %v", err)
	}
	cfg.CandidatesPath = path
	if _, err := buildRouter(cfg); err != nil {
		t.Fatalf("build router: %v", err)
	}
}

func TestBuildRouterRequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.SessionSecret = ""
	if _, err := buildRouter(cfg); err == nil {
		t.Fatal("expected error without session secret")
	}
}
