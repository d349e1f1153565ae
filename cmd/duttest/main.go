package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/technofab/duttest/internal/config"
	"gitlab.com/technofab/duttest/internal/dut"
	"gitlab.com/technofab/duttest/internal/fixture"
	"gitlab.com/technofab/duttest/internal/report/console"
	"gitlab.com/technofab/duttest/internal/report/junit"
	"gitlab.com/technofab/duttest/internal/runner"
	"gitlab.com/technofab/duttest/internal/suite"
	"gitlab.com/technofab/duttest/internal/types"
	"gitlab.com/technofab/duttest/suites"
)

const (
	exitOK          = 0
	exitConfigError = 1
	exitTestsFailed = 2
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: cfg.NoColor})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg config.AppConfig, out io.Writer) int {
	log.Info().
		Int("workers", cfg.NumWorkers).
		Str("dut", cfg.DutPath).
		Msg("Starting duttest")

	var files fixture.Service = fixture.NewDefaultService()
	suiteFiles := cfg.SuiteFiles
	if cfg.Example {
		if cfg.UpdateFiles {
			log.Error().Msg("The embedded example suite cannot be updated")
			return exitConfigError
		}
		if len(suiteFiles) > 0 {
			log.Warn().Strs("suites", suiteFiles).Msg("Ignoring suite files, running the embedded example")
		}
		files = fixture.NewFSService(suites.FS)
		suiteFiles = []string{suites.PrimeCheck}
	}

	loader := suite.NewLoader(files, suite.Options{AllowMissingFiles: cfg.UpdateFiles})
	loaded, err := loader.LoadAll(suiteFiles)
	if err != nil {
		for _, e := range flattenErrors(err) {
			log.Error().Msg(e.Error())
		}
		log.Error().Msg("Failed to load suites, no tests were run")
		return exitConfigError
	}

	totalTests := 0
	for _, s := range loaded {
		totalTests += len(s.Tests)
	}
	log.Info().
		Int("suites", len(loaded)).
		Int("tests", totalTests).
		Msg("Discovered suites")

	dutPath, err := resolveDut(cfg.DutPath)
	if err != nil {
		log.Error().Err(err).Str("dut", cfg.DutPath).Msg("Failed to resolve DUT path")
		return exitConfigError
	}

	testRunner, err := runner.New(runner.Config{
		NumWorkers:  cfg.NumWorkers,
		UpdateFiles: cfg.UpdateFiles,
		SkipPattern: cfg.SkipPattern,
		PureEnv:     cfg.PureEnv,
	}, dut.NewDefaultService(dutPath), files)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create runner")
		return exitConfigError
	}

	results := testRunner.RunTests(ctx, loaded)
	if ctx.Err() != nil {
		log.Warn().Msg("Run was canceled, remaining tests are reported as errors")
	}

	if cfg.JunitPath != "" {
		err = junit.WriteFile(cfg.JunitPath, "duttest", results)
		if err != nil {
			log.Error().Err(err).Msg("Failed to generate junit file")
		} else {
			log.Info().Str("path", cfg.JunitPath).Msg("Generated Junit report")
		}
	}

	// print errors/logs of failed tests
	console.PrintErrors(out, results, cfg.NoColor)

	log.Info().Msg("Summary:")
	console.PrintSummary(out, results)

	if results.Count(types.StatusFailure)+results.Count(types.StatusError) > 0 {
		return exitTestsFailed
	}
	return exitOK
}

// resolveDut makes relative paths absolute, bare names are looked up in PATH
// by the OS when the DUT is started
func resolveDut(dutPath string) (string, error) {
	if !strings.ContainsRune(dutPath, filepath.Separator) && !strings.ContainsRune(dutPath, '/') {
		return dutPath, nil
	}
	return filepath.Abs(dutPath)
}

// flattenErrors unpacks joined errors, one entry per configuration problem
func flattenErrors(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flattenErrors(e)...)
	}
	return out
}
