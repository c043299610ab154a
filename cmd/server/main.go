package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imds-capstone/backend/internal/api"
	"imds-capstone/backend/internal/config"
	"imds-capstone/backend/internal/report"
	"imds-capstone/backend/internal/scoring"
	"imds-capstone/backend/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	cfg.ConfigureLogging()
	gin.SetMode(cfg.GinMode)

	handler, err := buildRouter(cfg)
	if err != nil {
		logrus.Fatalf("configure server: %v", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Narrative calls are bounded by NARRATIVE_TIMEOUT; leave room for the rest of the request.
		WriteTimeout: cfg.Narrative.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	logrus.Infof("imds backend listening on :%s", cfg.Port)
	waitForShutdown(server)
}

func buildRouter(cfg *config.Config) (*gin.Engine, error) {
	codec, err := session.NewCodec(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	candidates := scoring.DefaultCandidates()
	if cfg.CandidatesPath != "" {
		candidates, err = scoring.LoadCandidates(cfg.CandidatesPath)
		if err != nil {
			return nil, err
		}
	}
	ranker := scoring.NewRanker(candidates)

	explainer, err := cfg.Narrative.Explainer()
	if err != nil {
		return nil, err
	}
	if explainer == nil {
		logrus.Warn("no narrative generator credential configured; AI explanations are disabled")
	}

	logrus.WithFields(logrus.Fields{
		"candidates":         ranker.Size(),
		"narrative_provider": cfg.Narrative.Provider,
		"narrative_enabled":  explainer != nil,
		"cookie_secure":      cfg.CookieSecure,
	}).Info("configuration loaded")

	server, err := api.NewServer(api.Config{
		Codec:          codec,
		Service:        report.NewService(ranker, explainer, cfg.Narrative.Timeout),
		DemoUsername:   cfg.DemoUsername,
		DemoPassword:   cfg.DemoPassword,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: cfg.CookieSameSite,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		return nil, err
	}
	return server.Router()
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
