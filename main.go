package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/mikelcoira/vat-number-geo/internal/checker"
	"github.com/mikelcoira/vat-number-geo/internal/config"
	"github.com/mikelcoira/vat-number-geo/internal/resolver"
	"github.com/mikelcoira/vat-number-geo/internal/runner"
)

var (
	inputPath  string
	outputPath string
)

func init() {
	flag.StringVar(&inputPath, "i", "", "the input file, one vat number per line")
	flag.StringVar(&inputPath, "input", "", "the input file, one vat number per line")
	flag.StringVar(&outputPath, "o", "", "the output file; its directory must exist")
	flag.StringVar(&outputPath, "output", "", "the output file; its directory must exist")
	flag.Parse()
}

// validatePaths rejects bad arguments before any pipeline component runs.
func validatePaths(input, output string) error {
	if input == "" || output == "" {
		return errors.New("both --input and --output are required")
	}

	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s is not a valid path", input)
	}

	dir := filepath.Dir(output)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s/ is not a valid path", dir)
	}

	return nil
}

func main() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	log.SetLevel(log.Level(cfg.AppLogLevel))
	slog.SetDefault(slog.New(log.Default()))

	if err := validatePaths(inputPath, outputPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		log.Fatal("failed to open input file", "path", inputPath, "error", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		log.Fatal("failed to create output file", "path", outputPath, "error", err)
	}
	defer out.Close()

	vies := checker.NewVIESChecker(cfg.ViesBaseURL, cfg.HTTPTimeout, cfg.ViesRateLimit)
	registry := checker.NewBreaker(vies, cfg.BreakerFailureThreshold, cfg.BreakerRecoveryTimeout)
	axesor := checker.NewAxesorChecker(cfg.AxesorBaseURL, cfg.HTTPTimeout)

	res, err := resolver.New(registry, axesor, resolver.DefaultCandidates)
	if err != nil {
		log.Fatal("failed to build resolver", "error", err)
	}

	n, err := runner.Run(context.Background(), res, in, out)
	if err != nil {
		log.Fatal("batch failed", "records_written", n, "error", err)
	}

	log.Info("batch completed", "records", n, "output", outputPath)
}
