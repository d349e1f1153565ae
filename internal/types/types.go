package types

import (
	"fmt"
	"regexp"
	"time"
)

type OutputKind int

const (
	OutputLiteral OutputKind = iota
	OutputFile
	OutputRegex
)

func (k OutputKind) String() string {
	switch k {
	case OutputLiteral:
		return "literal"
	case OutputFile:
		return "file"
	case OutputRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// OutputExpectation is the expected stdout or stderr of a test case.
// For OutputFile, Text holds the file contents read at load time.
type OutputExpectation struct {
	Kind    OutputKind
	Text    string
	Path    string
	Pattern *regexp.Regexp
}

func Literal(text string) OutputExpectation {
	return OutputExpectation{Kind: OutputLiteral, Text: text}
}

func FromFile(path string, contents string) OutputExpectation {
	return OutputExpectation{Kind: OutputFile, Text: contents, Path: path}
}

func Regex(pattern *regexp.Regexp) OutputExpectation {
	return OutputExpectation{Kind: OutputRegex, Pattern: pattern}
}

// Matches reports whether actual output satisfies the expectation
func (e OutputExpectation) Matches(actual string) bool {
	switch e.Kind {
	case OutputLiteral, OutputFile:
		return e.Text == actual
	case OutputRegex:
		return e.Pattern != nil && e.Pattern.MatchString(actual)
	default:
		return false
	}
}

func (e OutputExpectation) String() string {
	switch e.Kind {
	case OutputLiteral:
		return fmt.Sprintf("%q", e.Text)
	case OutputFile:
		return "contents of " + e.Path
	case OutputRegex:
		if e.Pattern == nil {
			return "regex:"
		}
		return "regex:" + e.Pattern.String()
	default:
		return "unknown expectation"
	}
}

type Comparator int

const (
	CompareEquals Comparator = iota
	CompareNonZero
	CompareInRange
)

func (c Comparator) String() string {
	switch c {
	case CompareEquals:
		return "equals"
	case CompareNonZero:
		return "nonZero"
	case CompareInRange:
		return "inRange"
	default:
		return "unknown"
	}
}

// ReturnCodeExpectation is either an exact return code or a predicate
// built from a Comparator. Exact is set for plain literal codes.
type ReturnCodeExpectation struct {
	Exact       bool
	Comparator  Comparator
	Value       int
	Min         int
	Max         int
	Description string
}

func ExactCode(code int) ReturnCodeExpectation {
	return ReturnCodeExpectation{Exact: true, Comparator: CompareEquals, Value: code}
}

func NonZero(description string) ReturnCodeExpectation {
	return ReturnCodeExpectation{Comparator: CompareNonZero, Description: description}
}

func Equals(description string, code int) ReturnCodeExpectation {
	return ReturnCodeExpectation{Comparator: CompareEquals, Value: code, Description: description}
}

func InRange(description string, lo, hi int) ReturnCodeExpectation {
	return ReturnCodeExpectation{Comparator: CompareInRange, Min: lo, Max: hi, Description: description}
}

// Satisfied evaluates the expectation against an observed return code
func (e ReturnCodeExpectation) Satisfied(code int) bool {
	switch e.Comparator {
	case CompareEquals:
		return code == e.Value
	case CompareNonZero:
		return code != 0
	case CompareInRange:
		return code >= e.Min && code <= e.Max
	default:
		return false
	}
}

func (e ReturnCodeExpectation) String() string {
	if e.Description != "" {
		return e.Description
	}
	switch e.Comparator {
	case CompareEquals:
		return fmt.Sprintf("== %d", e.Value)
	case CompareNonZero:
		return "!= 0"
	case CompareInRange:
		return fmt.Sprintf("in [%d, %d]", e.Min, e.Max)
	default:
		return "unknown"
	}
}

type TestCase struct {
	Name        string
	Description string
	Command     string
	Stdout      OutputExpectation
	Stderr      OutputExpectation
	ReturnCode  ReturnCodeExpectation
	Timeout     time.Duration

	// filled in by the loader
	Suite string
	Index int
	Pos   string
}

type Suite struct {
	Name  string
	Dir   string
	Tests []TestCase
}

type TestStatus int

const (
	StatusSuccess TestStatus = iota
	StatusFailure
	StatusError
	StatusSkipped
)

func (ts TestStatus) String() string {
	switch ts {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailure:
		return "FAILURE"
	case StatusError:
		return "ERROR"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

type TestResult struct {
	Spec         TestCase
	Status       TestStatus
	Duration     time.Duration
	ErrorMessage string
	Expected     string
	Actual       string
	ExitCode     int
	Stdout       string
	Stderr       string
}

// SuiteResults holds the results of one suite, in test order
type SuiteResults struct {
	Suite   string
	Results []TestResult
}

// Results are reported in suite order
type Results []SuiteResults

// Count returns the number of results with the given status
func (r Results) Count(status TestStatus) int {
	n := 0
	for _, s := range r {
		for _, res := range s.Results {
			if res.Status == status {
				n++
			}
		}
	}
	return n
}

// Total returns the number of results across all suites
func (r Results) Total() int {
	n := 0
	for _, s := range r {
		n += len(s.Results)
	}
	return n
}
