package runner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.com/technofab/duttest/internal/dut"
	apperrors "gitlab.com/technofab/duttest/internal/errors"
	"gitlab.com/technofab/duttest/internal/fixture"
	"gitlab.com/technofab/duttest/internal/types"
)

// Runner executes test cases against the DUT based on the configuration
type Runner struct {
	config      Config
	dutService  dut.Service
	fileService fixture.Service
	skipRegex   *regexp.Regexp
	resultsChan chan types.TestResult
	jobsChan    chan types.TestCase
	wg          sync.WaitGroup
}

// Config holds configuration for Runner
type Config struct {
	NumWorkers  int
	UpdateFiles bool
	SkipPattern string
	PureEnv     bool
}

func New(cfg Config, dutService dut.Service, fileService fixture.Service) (*Runner, error) {
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}
	r := &Runner{
		config:      cfg,
		dutService:  dutService,
		fileService: fileService,
	}
	if cfg.SkipPattern != "" {
		var err error
		r.skipRegex, err = regexp.Compile(cfg.SkipPattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile skip regex: %w", err)
		}
	}
	return r, nil
}

func (r *Runner) shouldSkip(name string) bool {
	if r.skipRegex == nil {
		return false
	}
	return r.skipRegex.MatchString(name)
}

// RunTests executes all tests from the given suites. Results keep the order
// of the suites and of the tests within them.
func (r *Runner) RunTests(ctx context.Context, suites []types.Suite) types.Results {
	totalTests := 0
	for _, suite := range suites {
		totalTests += len(suite.Tests)
	}

	r.jobsChan = make(chan types.TestCase, totalTests)
	r.resultsChan = make(chan types.TestResult, totalTests)

	for i := 1; i <= r.config.NumWorkers; i++ {
		r.wg.Add(1)
		go r.worker(ctx)
	}

	results := make(types.Results, len(suites))
	suiteIndex := make(map[string]int, len(suites))
	for i, suite := range suites {
		results[i].Suite = suite.Name
		suiteIndex[suite.Name] = i
		for _, test := range suite.Tests {
			test.Suite = suite.Name
			r.jobsChan <- test
		}
	}
	close(r.jobsChan)

	r.wg.Wait()
	close(r.resultsChan)

	for res := range r.resultsChan {
		i := suiteIndex[res.Spec.Suite]
		results[i].Results = append(results[i].Results, res)
	}
	for i := range results {
		sort.Slice(results[i].Results, func(a, b int) bool {
			return results[i].Results[a].Spec.Index < results[i].Results[b].Spec.Index
		})
	}
	return results
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()
	for spec := range r.jobsChan {
		r.resultsChan <- r.executeTest(ctx, spec)
	}
}

// executeTest -> main test execution logic
func (r *Runner) executeTest(ctx context.Context, spec types.TestCase) (result types.TestResult) {
	startTime := time.Now()
	result = types.TestResult{
		Spec:     spec,
		Status:   types.StatusSuccess,
		ExitCode: -1,
	}
	defer func() {
		result.Duration = time.Since(startTime)
	}()

	if r.shouldSkip(spec.Name) {
		result.Status = types.StatusSkipped
		return result
	}
	if ctx.Err() != nil {
		result.Status = types.StatusError
		result.ErrorMessage = "[system] run canceled before the test started"
		return result
	}

	exitCode, stdout, stderr, err := r.dutService.Run(ctx, spec.Command, spec.Timeout, r.config.PureEnv)
	result.ExitCode = exitCode
	result.Stdout = stdout
	result.Stderr = stderr
	if err != nil {
		result.Status = types.StatusError
		result.ErrorMessage = executionMessage(err, stdout, stderr)
		log.Debug().Str("test", spec.Name).Err(err).Msg("Execution error")
		return result
	}

	expectedStdout, err := r.refreshFile(spec, spec.Stdout, stdout)
	if err != nil {
		result.Status = types.StatusError
		result.ErrorMessage = fmt.Sprintf("[system] %v", err)
		return result
	}
	expectedStderr, err := r.refreshFile(spec, spec.Stderr, stderr)
	if err != nil {
		result.Status = types.StatusError
		result.ErrorMessage = fmt.Sprintf("[system] %v", err)
		return result
	}

	r.evaluate(&result, expectedStdout, expectedStderr)
	return result
}

// executionMessage describes why the DUT could not produce a result
func executionMessage(err error, stdout, stderr string) string {
	var timeoutErr *apperrors.TimeoutError
	var startErr *apperrors.StartError
	var msg string
	switch {
	case errors.As(err, &timeoutErr):
		msg = fmt.Sprintf("[timeout] %v", err)
	case errors.As(err, &startErr):
		msg = fmt.Sprintf("[system] %v", err)
	case errors.Is(err, context.Canceled):
		msg = fmt.Sprintf("[canceled] %v", err)
	default:
		msg = fmt.Sprintf("[system] %v", err)
	}
	if stdout != "" || stderr != "" {
		msg += fmt.Sprintf("\n[stdout]\n%s\n[stderr]\n%s", stdout, stderr)
	}
	return msg
}

// refreshFile writes the actual output into file expectations when updating.
// The loaded test case stays untouched, the returned expectation is used instead.
func (r *Runner) refreshFile(spec types.TestCase, expected types.OutputExpectation, actual string) (types.OutputExpectation, error) {
	if !r.config.UpdateFiles || expected.Kind != types.OutputFile {
		return expected, nil
	}
	if expected.Text == actual {
		return expected, nil
	}
	if err := r.fileService.WriteFile(expected.Path, []byte(actual)); err != nil {
		return expected, err
	}
	log.Info().Str("test", spec.Name).Str("path", expected.Path).Msg("Expectation file updated")
	return types.FromFile(expected.Path, actual), nil
}

// evaluate checks all three expectations, every mismatch is listed
func (r *Runner) evaluate(result *types.TestResult, expectedStdout, expectedStderr types.OutputExpectation) {
	var problems []string

	if !result.Spec.ReturnCode.Satisfied(result.ExitCode) {
		problems = append(problems, fmt.Sprintf("[return code] expected %s, got %d", result.Spec.ReturnCode, result.ExitCode))
	}
	problems = append(problems, r.compareOutput(result, "stdout", expectedStdout, result.Stdout)...)
	problems = append(problems, r.compareOutput(result, "stderr", expectedStderr, result.Stderr)...)

	if len(problems) > 0 {
		result.Status = types.StatusFailure
		result.ErrorMessage = strings.Join(problems, "\n")
	}
}

func (r *Runner) compareOutput(result *types.TestResult, stream string, expected types.OutputExpectation, actual string) []string {
	if expected.Matches(actual) {
		return nil
	}
	if expected.Kind == types.OutputRegex {
		return []string{fmt.Sprintf("[%s] %q does not match %s", stream, actual, expected)}
	}
	// the first mismatching stream gets the diff, others are shown inline
	if result.Expected == "" && result.Actual == "" {
		result.Expected = expected.Text
		result.Actual = actual
		return []string{fmt.Sprintf("[%s] output differs from %s, see diff", stream, expected)}
	}
	return []string{fmt.Sprintf("[%s] expected %q, got %q", stream, expected.Text, actual)}
}
