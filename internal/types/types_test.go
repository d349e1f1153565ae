package types

import (
	"regexp"
	"testing"
)

func TestTestStatus_String(t *testing.T) {
	tests := []struct {
		name   string
		status TestStatus
		want   string
	}{
		{"Success", StatusSuccess, "SUCCESS"},
		{"Failure", StatusFailure, "FAILURE"},
		{"Error", StatusError, "ERROR"},
		{"Skipped", StatusSkipped, "SKIPPED"},
		{"Unknown", TestStatus(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("TestStatus.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputExpectation_Matches(t *testing.T) {
	tests := []struct {
		name   string
		expect OutputExpectation
		actual string
		want   bool
	}{
		{"Literal equal", Literal("hello\n"), "hello\n", true},
		{"Literal missing newline", Literal("hello\n"), "hello", false},
		{"Literal empty", Literal(""), "", true},
		{"Literal empty vs output", Literal(""), "x", false},
		{"File equal", FromFile("usage.txt", "Usage:\n"), "Usage:\n", true},
		{"File trailing whitespace differs", FromFile("usage.txt", "Usage:\n"), "Usage: \n", false},
		{"Regex anchored match", Regex(regexp.MustCompile("^Error:")), "Error: boom\n", true},
		{"Regex anchored no match", Regex(regexp.MustCompile("^Error:")), "warn\nError: boom\n", false},
		{"Regex nil pattern", OutputExpectation{Kind: OutputRegex}, "anything", false},
		{"Unknown kind", OutputExpectation{Kind: OutputKind(42)}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expect.Matches(tt.actual); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.actual, got, tt.want)
			}
		})
	}
}

func TestOutputExpectation_String(t *testing.T) {
	tests := []struct {
		name   string
		expect OutputExpectation
		want   string
	}{
		{"Literal", Literal("a\n"), `"a\n"`},
		{"File", FromFile("usage.txt", "x"), "contents of usage.txt"},
		{"Regex", Regex(regexp.MustCompile("^Error:")), "regex:^Error:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expect.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReturnCodeExpectation_Satisfied(t *testing.T) {
	tests := []struct {
		name   string
		expect ReturnCodeExpectation
		code   int
		want   bool
	}{
		{"Exact match", ExactCode(0), 0, true},
		{"Exact mismatch", ExactCode(0), 3, false},
		{"NonZero with zero", NonZero(""), 0, false},
		{"NonZero with three", NonZero(""), 3, true},
		{"NonZero with negative", NonZero(""), -1, true},
		{"Equals", Equals("", 2), 2, true},
		{"InRange lower bound", InRange("", 1, 3), 1, true},
		{"InRange upper bound", InRange("", 1, 3), 3, true},
		{"InRange outside", InRange("", 1, 3), 4, false},
		{"Unknown comparator", ReturnCodeExpectation{Comparator: Comparator(9)}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expect.Satisfied(tt.code); got != tt.want {
				t.Errorf("Satisfied(%d) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestReturnCodeExpectation_String(t *testing.T) {
	tests := []struct {
		name   string
		expect ReturnCodeExpectation
		want   string
	}{
		{"Exact", ExactCode(0), "== 0"},
		{"NonZero", NonZero(""), "!= 0"},
		{"InRange", InRange("", 1, 3), "in [1, 3]"},
		{"Description wins", NonZero("any failure"), "any failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expect.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResults_Count(t *testing.T) {
	results := Results{
		{Suite: "a", Results: []TestResult{{Status: StatusSuccess}, {Status: StatusFailure}}},
		{Suite: "b", Results: []TestResult{{Status: StatusSuccess}, {Status: StatusSkipped}, {Status: StatusError}}},
		{Suite: "empty"},
	}

	if got := results.Total(); got != 5 {
		t.Errorf("Total() = %d, want 5", got)
	}
	counts := map[TestStatus]int{StatusSuccess: 2, StatusFailure: 1, StatusError: 1, StatusSkipped: 1}
	for status, want := range counts {
		if got := results.Count(status); got != want {
			t.Errorf("Count(%s) = %d, want %d", status, got, want)
		}
	}
	if got := (Results{}).Total(); got != 0 {
		t.Errorf("Total() of no results = %d, want 0", got)
	}
}
