package util

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/akedrou/textdiff/myers"
	apperrors "gitlab.com/technofab/duttest/internal/errors"
	"gopkg.in/yaml.v3"
)

func ComputeDiff(expected, actual string) (string, error) {
	// FIXME: ComputeEdits deprecated
	edits := myers.ComputeEdits(expected, actual)
	diff, err := textdiff.ToUnified("expected", "actual", expected, edits, 3)
	if err != nil {
		return "", err
	}
	// remove newline hint
	diff = strings.ReplaceAll(diff, "\\ No newline at end of file\n", "")
	return diff, nil
}

// Decode decodes YAML (or JSON) data into the provided type.
// Unknown fields are rejected.
func Decode[T any](data []byte, source string) (result T, err error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err = decoder.Decode(&result)
	if err != nil {
		return result, &apperrors.DecodeError{Source: source, Err: fmt.Errorf("failed to decode: %w", err)}
	}
	return result, nil
}

// PrefixLines adds a prefix to each line of the input string
func PrefixLines(input string, prefix string) string {
	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
