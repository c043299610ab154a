package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"imds-capstone/backend/internal/ai"
	"imds-capstone/backend/internal/config"
	"imds-capstone/backend/internal/report"
	"imds-capstone/backend/internal/scoring"
)

const maxStdinBytes = 1 << 20

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logrus.Fatalf("imds-report: %v", err)
	}
}

type options struct {
	symptoms   string
	candidates string
	format     string
	output     string
	narrative  bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("imds-report", flag.ContinueOnError)
	fs.StringVar(&opts.symptoms, "symptoms", "", "Symptom text (read from stdin when empty)")
	fs.StringVar(&opts.candidates, "candidates", "", "Optional JSON reference table of ICD-10 candidates")
	fs.StringVar(&opts.format, "format", "text", "Output format: text or json")
	fs.StringVar(&opts.output, "output", "", "Optional path to write the report instead of stdout")
	fs.BoolVar(&opts.narrative, "narrative", false, "Call the narrative generator configured by NARRATIVE_* variables")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	if opts.format != "text" && opts.format != "json" {
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	if fs.NArg() > 0 && opts.symptoms == "" {
		opts.symptoms = strings.Join(fs.Args(), " ")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	symptoms := opts.symptoms
	if strings.TrimSpace(symptoms) == "" {
		data, err := io.ReadAll(io.LimitReader(stdin, maxStdinBytes))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		symptoms = strings.TrimSpace(string(data))
	}
	if symptoms == "" {
		return errors.New("no symptoms provided")
	}

	candidates := scoring.DefaultCandidates()
	if opts.candidates != "" {
		candidates, err = scoring.LoadCandidates(opts.candidates)
		if err != nil {
			return err
		}
	}

	var (
		explainer ai.Explainer
		timeout   time.Duration
	)
	if opts.narrative {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.ConfigureLogging()
		explainer, err = cfg.Narrative.Explainer()
		if err != nil {
			return err
		}
		timeout = cfg.Narrative.Timeout
	}

	service := report.NewService(scoring.NewRanker(candidates), explainer, timeout)
	rep := service.Report(ctx, symptoms)
	logrus.WithFields(logrus.Fields{
		"candidates":        len(rep.Candidates),
		"narrative_outcome": rep.Outcome,
	}).Debug("report assembled")

	out := stdout
	if opts.output != "" {
		file, err := createOutput(opts.output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	return writeReport(out, rep, opts.format)
}

func writeReport(w io.Writer, rep report.Report, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rep)
	}
	_, err := io.WriteString(w, rep.Text)
	return err
}

func createOutput(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return file, nil
}
