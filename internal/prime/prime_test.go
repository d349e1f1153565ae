package prime

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/technofab/duttest/suites"
)

func TestIsPrime(t *testing.T) {
	tests := []struct {
		n    uint64
		want bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{5, true},
		{7, true},
		{9, false},
		{25, false},
		{49, false},
		{97, true},
		{100, false},
		{1009, true},
		{2147483647, true},
		{2147483646, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.n), func(t *testing.T) {
			if got := IsPrime(tt.n); got != tt.want {
				t.Errorf("IsPrime(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestNextGreater(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 2},
		{1, 2},
		{2, 3},
		{3, 5},
		{7, 11},
		{8, 11},
		{13, 17},
		{2147483646, 2147483647},
		{2147483647, 2147483659},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.n), func(t *testing.T) {
			if got := NextGreater(tt.n); got != tt.want {
				t.Errorf("NextGreater(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestNextSmaller(t *testing.T) {
	tests := []struct {
		n      uint64
		want   uint64
		wantOk bool
	}{
		{0, 0, false},
		{1, 0, false},
		{2, 0, false},
		{3, 2, true},
		{4, 3, true},
		{5, 3, true},
		{8, 7, true},
		{14, 13, true},
		{100, 97, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.n), func(t *testing.T) {
			got, ok := NextSmaller(tt.n)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("NextSmaller(%d) = (%d, %v), want (%d, %v)", tt.n, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{"0", 0, false},
		{"+7", 7, false},
		{"-7", -7, false},
		{"010", 8, false},
		{"0x1F", 31, false},
		{"0X1f", 31, false},
		{"2147483647", 2147483647, false},
		{"2147483648", 0, true},
		{"", 0, true},
		{"+", 0, true},
		{"+-7", 0, true},
		{"7a", 0, true},
		{"1_000", 0, true},
		{"0b101", 0, true},
		{"09", 0, true},
		{"0x", 0, true},
		{" 7", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantStdout   string
		wantStderrRe string
	}{
		{"Help", []string{"-h"}, ExitOK, Usage, ""},
		{"Prime", []string{"7", "="}, ExitOK, "*\\o/* The number 7 is a prime number. *\\o/*\n", ""},
		{"Not prime", []string{"8", "="}, ExitOK, "O_o The number 8 is not a prime number. o_O\n", ""},
		{"Zero is not prime", []string{"0", "="}, ExitOK, "O_o The number 0 is not a prime number. o_O\n", ""},
		{"Hex input", []string{"0x7", "="}, ExitOK, "*\\o/* The number 7 is a prime number. *\\o/*\n", ""},
		{"Next greater", []string{"7", "+"}, ExitOK, "+++ The next greater prime number to 7 is: 11. +++\n", ""},
		{"Next smaller", []string{"7", "-"}, ExitOK, "--- The next smaller prime number to 7 is: 5. ---\n", ""},
		{"No smaller prime", []string{"2", "-"}, ExitOK, "%%% There is no prime number smaller than 2. %%%\n", ""},
		{"No arguments", nil, ExitParamCount, "", "^Error: "},
		{"Too many arguments", []string{"7", "=", "x"}, ExitParamCount, "", "^Error: "},
		{"Help with extra argument", []string{"-h", "x"}, ExitInvalidOp, "", "^Error: "},
		{"Unknown operator", []string{"7", "*"}, ExitInvalidOp, "", "^Error: "},
		{"Operator too long", []string{"7", "=="}, ExitInvalidOp, "", "^Error: "},
		{"Operator checked before number", []string{"abc", "x"}, ExitInvalidOp, "", "^Error: "},
		{"Invalid number", []string{"abc", "="}, ExitInvalidNum, "", "^Error: "},
		{"Negative number", []string{"-7", "="}, ExitInvalidNum, "", "^Error: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStdout, stdout.String())
			if tt.wantStderrRe == "" {
				assert.Empty(t, stderr.String())
			} else {
				assert.Regexp(t, tt.wantStderrRe, stderr.String())
				assert.True(t, strings.HasSuffix(stderr.String(), Usage), "usage should follow the error message")
			}
		})
	}
}

// the usage file of the example suite is the expected -h output
func TestUsageMatchesExampleSuite(t *testing.T) {
	data, err := suites.FS.ReadFile("primecheck/usage.txt")
	require.NoError(t, err)
	assert.Equal(t, Usage, string(data))
}
