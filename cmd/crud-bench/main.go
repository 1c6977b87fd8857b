package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"crud-benchmark/internal/config"
	"crud-benchmark/internal/database"
	"crud-benchmark/internal/runner"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	configPath := flag.String("config", "", "path to YAML config file (optional)")
	backend := flag.String("db", "", "backend to benchmark ("+strings.Join(database.Backends(), ", ")+")")
	mode := flag.String("mode", "", "run mode (cold or warm)")
	size := flag.Int("size", 0, "number of records to generate")
	repeats := flag.Int("repeats", 0, "timed passes per phase")
	out := flag.String("out", "", "results directory")

	flag.Parse()

	// .env is optional; a missing file is not an error.
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		exitCode = 1
		return
	}

	// Flags override both the file and the environment.
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *size > 0 {
		cfg.DatasetSize = *size
	}
	if *repeats > 0 {
		cfg.Repeats = *repeats
	}
	if *out != "" {
		cfg.ResultsDir = *out
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		exitCode = 1
		return
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		exitCode = 1
		return
	}
	defer logger.Sync()

	fmt.Printf("Running %s benchmark (%s, %d records, %d repeats)...\n",
		cfg.Backend, cfg.Mode, cfg.DatasetSize, cfg.Repeats)

	_, path, err := runner.New(cfg, logger).Run(context.Background())
	if err != nil {
		logger.Error("benchmark failed", zap.Error(err))
		exitCode = 1
		return
	}

	fmt.Printf("Report written to %s\n", path)
}
