package errors

import (
	"fmt"
	"time"
)

// ConfigError indicates a malformed suite or test record, detected at load time
type ConfigError struct {
	Source string // suite file, with line if known
	Test   string // empty for suite level problems
	Field  string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Test == "" {
		if e.Field == "" {
			return fmt.Sprintf("invalid suite %s: %v", e.Source, e.Err)
		}
		return fmt.Sprintf("invalid suite %s: field %s: %v", e.Source, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid test %q at %s: field %s: %v", e.Test, e.Source, e.Field, e.Err)
}
func (e *ConfigError) Unwrap() error { return e.Err }

// FileReadError indicates an error reading a file, e.g. a suite or expectation file
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}
func (e *FileReadError) Unwrap() error { return e.Err }

// DecodeError indicates an error decoding YAML/JSON data
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Source, e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// StartError indicates the DUT could not be started or waited for
type StartError struct {
	Command string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Err)
}
func (e *StartError) Unwrap() error { return e.Err }

// TimeoutError indicates the DUT did not finish within its timeout
type TimeoutError struct {
	Command string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %s", e.Command, e.Timeout)
}
func (e *TimeoutError) Unwrap() error { return e.Err }

// FixtureWriteError indicates an error while updating an expectation file
type FixtureWriteError struct {
	FilePath string
	Err      error
}

func (e *FixtureWriteError) Error() string {
	return fmt.Sprintf("failed to create/update expectation file %s: %v", e.FilePath, e.Err)
}
func (e *FixtureWriteError) Unwrap() error { return e.Err }
