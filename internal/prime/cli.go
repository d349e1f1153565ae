package prime

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Exit codes of the primecheck program
const (
	ExitOK         = 0
	ExitInvalidOp  = 1
	ExitInvalidNum = 2
	ExitParamCount = 3
)

const Usage = `Usage:

  primecheck -h

  shows this help and exits.

  - or -

  primecheck NUM OP

  checks whether a given number is prime or finds the closest prime number
  (downwards or upwards from the given number). A call always consists of
  a number followed by an operation, where:

  NUM has to be a positive integer number (including 0).

  OP is one of:
    = checks whether NUM is prime or not
    + looks for the next prime number upwards from NUM (exclusive)
    - looks for the next prime number downwards from NUM (exclusive)
`

var errInvalidNumber = errors.New("invalid number")

// Run executes the primecheck program with args (without the program name)
// and returns its exit code
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		fmt.Fprint(stdout, Usage)
		return ExitOK
	}

	if len(args) != 2 {
		return fail(stderr, ExitParamCount, "Die Anzahl der Kommandozeilenparameter ist falsch.")
	}

	op := args[1]
	if op != "=" && op != "+" && op != "-" {
		return fail(stderr, ExitInvalidOp, "Parameter OP ist kein bekannter Operator.")
	}

	num, err := ParseNumber(args[0])
	if err != nil || num < 0 {
		return fail(stderr, ExitInvalidNum, "Parameter NUM ist keine positive Ganzzahl.")
	}
	n := uint64(num)

	switch op {
	case "=":
		if IsPrime(n) {
			fmt.Fprintf(stdout, "*\\o/* The number %d is a prime number. *\\o/*\n", n)
		} else {
			fmt.Fprintf(stdout, "O_o The number %d is not a prime number. o_O\n", n)
		}
	case "+":
		fmt.Fprintf(stdout, "+++ The next greater prime number to %d is: %d. +++\n", n, NextGreater(n))
	case "-":
		if p, ok := NextSmaller(n); ok {
			fmt.Fprintf(stdout, "--- The next smaller prime number to %d is: %d. ---\n", n, p)
		} else {
			fmt.Fprintf(stdout, "%%%%%% There is no prime number smaller than %d. %%%%%%\n", n)
		}
	}
	return ExitOK
}

func fail(stderr io.Writer, code int, msg string) int {
	fmt.Fprintf(stderr, "Error: %s\n", msg)
	fmt.Fprint(stderr, Usage)
	return code
}

// ParseNumber accepts the integer notations of C's %i conversion: decimal,
// hexadecimal with 0x prefix and octal with leading 0, optionally signed.
// The value has to fit into 32 bits.
func ParseNumber(s string) (int64, error) {
	digits := s
	neg := false
	if strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, errInvalidNumber
	}

	base := 10
	switch {
	case len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X"):
		base = 16
		digits = digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base = 8
		digits = digits[1:]
	}
	if digits[0] == '+' || digits[0] == '-' {
		return 0, errInvalidNumber
	}

	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errInvalidNumber, s)
	}
	if neg {
		n = -n
	}
	return n, nil
}
