package dut

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-shellwords"
	apperrors "gitlab.com/technofab/duttest/internal/errors"
)

// Placeholder is replaced with the path of the program under test
const Placeholder = "$DUT"

// how long Wait may block on the output pipes after the DUT was killed
const waitDelay = 2 * time.Second

var ErrEmptyCommand = errors.New("command is empty")

// Service defines how a test case command is executed against the DUT
type Service interface {
	Run(ctx context.Context, command string, timeout time.Duration, pureEnv bool) (exitCode int, stdout string, stderr string, err error)
}

type DefaultService struct {
	dutPath         string
	commandExecutor func(ctx context.Context, command string, args ...string) *exec.Cmd
}

func NewDefaultService(dutPath string) *DefaultService {
	return &DefaultService{dutPath: dutPath, commandExecutor: exec.CommandContext}
}

// SplitCommand parses a command template into its words.
// Quotes and escapes are handled like a shell does, $DUT is left untouched.
func SplitCommand(command string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false

	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	return args, nil
}

// Expand splits the command and substitutes the DUT path in every word
func (s *DefaultService) Expand(command string) ([]string, error) {
	args, err := SplitCommand(command)
	if err != nil {
		return nil, err
	}
	for i, arg := range args {
		args[i] = strings.ReplaceAll(arg, Placeholder, s.dutPath)
	}
	return args, nil
}

// Run executes the command and captures its output. A non-zero exit code is
// not an error, only failing to start, timing out or being canceled is.
func (s *DefaultService) Run(ctx context.Context, command string, timeout time.Duration, pureEnv bool) (exitCode int, stdout string, stderr string, err error) {
	exitCode = -1
	args, err := s.Expand(command)
	if err != nil {
		return exitCode, "", "", &apperrors.StartError{Command: command, Err: err}
	}
	display := strings.Join(args, " ")

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := s.commandExecutor(runCtx, args[0], args[1:]...)
	if pureEnv {
		cmd.Env = []string{}
	}
	cmd.WaitDelay = waitDelay
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err = cmd.Start(); err != nil {
		return exitCode, "", "", &apperrors.StartError{Command: display, Err: err}
	}

	runErr := cmd.Wait()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr != nil {
		if ctx.Err() != nil {
			return exitCode, stdout, stderr, fmt.Errorf("run of %s canceled: %w", display, ctx.Err())
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return exitCode, stdout, stderr, &apperrors.TimeoutError{Command: display, Timeout: timeout, Err: runCtx.Err()}
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return exitStatus(exitErr), stdout, stderr, nil
		}
		return exitCode, stdout, stderr, &apperrors.StartError{Command: display, Err: runErr}
	}

	return 0, stdout, stderr, nil
}

// exitStatus reports signal terminations as the negative signal number
func exitStatus(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return -int(status.Signal())
	}
	return exitErr.ExitCode()
}
