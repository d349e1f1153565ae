// Package suite loads test suites from YAML or JSON files and validates every
// record up front, so that malformed records surface as configuration errors
// before any DUT is started.
package suite

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.com/technofab/duttest/internal/dut"
	apperrors "gitlab.com/technofab/duttest/internal/errors"
	"gitlab.com/technofab/duttest/internal/fixture"
	"gitlab.com/technofab/duttest/internal/types"
	"gitlab.com/technofab/duttest/internal/util"
	"gopkg.in/yaml.v3"
)

// RegexPrefix marks a scalar output expectation as regular expression
const RegexPrefix = "regex:"

// NewlineEscape is expanded to "\n" in literal output expectations
const NewlineEscape = "$n"

type Options struct {
	// AllowMissingFiles tolerates missing expectation files, used when they
	// are about to be (re)written from actual output
	AllowMissingFiles bool
}

type Loader struct {
	files fixture.Service
	opts  Options
}

func NewLoader(files fixture.Service, opts Options) *Loader {
	return &Loader{files: files, opts: opts}
}

// Load reads and validates the suite file at filePath. All configuration
// errors of the file are returned joined together.
func (l *Loader) Load(filePath string) (types.Suite, error) {
	data, err := l.files.ReadFile(filePath)
	if err != nil {
		return types.Suite{}, &apperrors.ConfigError{Source: filePath, Err: err}
	}

	raw, err := util.Decode[rawSuite](data, filePath)
	if err != nil {
		return types.Suite{}, &apperrors.ConfigError{Source: filePath, Err: err}
	}

	s := types.Suite{
		Name: raw.Name,
		Dir:  dirOf(filePath),
	}
	if s.Name == "" {
		base := filepath.Base(filePath)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var errs []error
	if len(raw.Tests) == 0 {
		errs = append(errs, &apperrors.ConfigError{Source: filePath, Field: "tests", Err: errors.New("suite contains no tests")})
	}

	seen := make(map[string]string, len(raw.Tests))
	for i, rt := range raw.Tests {
		tc, testErrs := l.buildTest(s, filePath, rt)
		tc.Index = i
		if tc.Name != "" {
			if first, dup := seen[tc.Name]; dup {
				testErrs = append(testErrs, &apperrors.ConfigError{
					Source: tc.Pos, Test: tc.Name, Field: "name",
					Err: fmt.Errorf("duplicate test name, first defined at %s", first),
				})
			} else {
				seen[tc.Name] = tc.Pos
			}
		}
		errs = append(errs, testErrs...)
		s.Tests = append(s.Tests, tc)
	}

	if len(errs) > 0 {
		return types.Suite{}, errors.Join(errs...)
	}

	log.Debug().Str("suite", s.Name).Str("file", filePath).Int("tests", len(s.Tests)).Msg("Loaded suite")
	return s, nil
}

// LoadAll loads every file, suite names have to be unique across files
func (l *Loader) LoadAll(filePaths []string) ([]types.Suite, error) {
	var suites []types.Suite
	var errs []error
	names := map[string]string{}

	for _, filePath := range filePaths {
		s, err := l.Load(filePath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if other, dup := names[s.Name]; dup {
			errs = append(errs, &apperrors.ConfigError{
				Source: filePath, Field: "name",
				Err: fmt.Errorf("suite name %q is already used by %s", s.Name, other),
			})
			continue
		}
		names[s.Name] = filePath
		suites = append(suites, s)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return suites, nil
}

func (l *Loader) buildTest(s types.Suite, filePath string, rt rawTest) (types.TestCase, []error) {
	tc := types.TestCase{
		Name:        rt.Name,
		Description: rt.Description,
		Command:     rt.Command,
		Suite:       s.Name,
		Pos:         fmt.Sprintf("%s:%d", filePath, rt.line),
	}

	var errs []error
	fail := func(field string, err error) {
		name := tc.Name
		if name == "" {
			name = "<unnamed>"
		}
		errs = append(errs, &apperrors.ConfigError{Source: tc.Pos, Test: name, Field: field, Err: err})
	}

	for _, key := range rt.unknown {
		fail(key, errors.New("unknown field"))
	}

	if strings.TrimSpace(tc.Name) == "" {
		fail("name", errMissing)
	}

	if strings.TrimSpace(tc.Command) == "" {
		fail("command", errMissing)
	} else if _, err := dut.SplitCommand(tc.Command); err != nil {
		fail("command", err)
	}

	var err error
	if tc.Stdout, err = l.outputExpectation(s.Dir, rt.Stdout); err != nil {
		fail("stdout", err)
	}
	if tc.Stderr, err = l.outputExpectation(s.Dir, rt.Stderr); err != nil {
		fail("stderr", err)
	}
	if tc.ReturnCode, err = returnCodeExpectation(rt.ReturnCode); err != nil {
		fail("returnCode", err)
	}
	if tc.Timeout, err = timeout(rt.Timeout); err != nil {
		fail("timeout", err)
	}

	return tc, errs
}

var errMissing = errors.New("required field is missing")

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// ExpandEscapes replaces the $n escape with a newline
func ExpandEscapes(s string) string {
	return strings.ReplaceAll(s, NewlineEscape, "\n")
}

func (l *Loader) outputExpectation(suiteDir string, node *yaml.Node) (types.OutputExpectation, error) {
	if isNull(node) {
		return types.OutputExpectation{}, errMissing
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if strings.HasPrefix(node.Value, RegexPrefix) {
			return regexExpectation(strings.TrimPrefix(node.Value, RegexPrefix))
		}
		return types.Literal(ExpandEscapes(node.Value)), nil
	case yaml.MappingNode:
		var m rawOutput
		if err := node.Decode(&m); err != nil {
			return types.OutputExpectation{}, err
		}
		set := 0
		for _, p := range []*string{m.File, m.Regex, m.Text} {
			if p != nil {
				set++
			}
		}
		if set != 1 {
			return types.OutputExpectation{}, errors.New("exactly one of file, regex or text has to be set")
		}
		switch {
		case m.File != nil:
			return l.fileExpectation(suiteDir, *m.File)
		case m.Regex != nil:
			return regexExpectation(*m.Regex)
		default:
			return types.Literal(ExpandEscapes(*m.Text)), nil
		}
	default:
		return types.OutputExpectation{}, fmt.Errorf("expected a string or mapping, got %s", kindName(node.Kind))
	}
}

func regexExpectation(pattern string) (types.OutputExpectation, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return types.OutputExpectation{}, fmt.Errorf("invalid regex: %w", err)
	}
	return types.Regex(re), nil
}

func (l *Loader) fileExpectation(suiteDir string, ref string) (types.OutputExpectation, error) {
	if strings.TrimSpace(ref) == "" {
		return types.OutputExpectation{}, errors.New("file reference is empty")
	}
	filePath := l.files.GetPath(suiteDir, ref)

	data, err := l.files.ReadFile(filePath)
	if err != nil {
		if l.opts.AllowMissingFiles && errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", filePath).Msg("Expectation file does not exist yet")
			return types.FromFile(filePath, ""), nil
		}
		return types.OutputExpectation{}, err
	}
	return types.FromFile(filePath, string(data)), nil
}

func returnCodeExpectation(node *yaml.Node) (types.ReturnCodeExpectation, error) {
	if isNull(node) {
		return types.ReturnCodeExpectation{}, errMissing
	}

	switch node.Kind {
	case yaml.ScalarNode:
		code, err := strconv.Atoi(strings.TrimSpace(node.Value))
		if err != nil {
			return types.ReturnCodeExpectation{}, fmt.Errorf("%q is not an integer", node.Value)
		}
		return types.ExactCode(code), nil
	case yaml.MappingNode:
		var m rawReturnCode
		if err := node.Decode(&m); err != nil {
			return types.ReturnCodeExpectation{}, err
		}
		switch m.Satisfies {
		case types.CompareNonZero.String():
			return types.NonZero(m.Description), nil
		case types.CompareEquals.String():
			if m.Value == nil {
				return types.ReturnCodeExpectation{}, errors.New("equals requires value")
			}
			return types.Equals(m.Description, *m.Value), nil
		case types.CompareInRange.String():
			if m.Min == nil || m.Max == nil {
				return types.ReturnCodeExpectation{}, errors.New("inRange requires min and max")
			}
			if *m.Min > *m.Max {
				return types.ReturnCodeExpectation{}, fmt.Errorf("inRange min %d is greater than max %d", *m.Min, *m.Max)
			}
			return types.InRange(m.Description, *m.Min, *m.Max), nil
		case "":
			return types.ReturnCodeExpectation{}, errors.New("satisfies is required")
		default:
			return types.ReturnCodeExpectation{}, fmt.Errorf("unknown comparator %q, use nonZero, equals or inRange", m.Satisfies)
		}
	default:
		return types.ReturnCodeExpectation{}, fmt.Errorf("expected an integer or mapping, got %s", kindName(node.Kind))
	}
}

func timeout(node *yaml.Node) (time.Duration, error) {
	if isNull(node) {
		return 0, errMissing
	}
	if node.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("expected a number of seconds, got %s", kindName(node.Kind))
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(node.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number of seconds", node.Value)
	}
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, fmt.Errorf("must be greater than 0, got %v", seconds)
	}
	if seconds > math.MaxInt64/float64(time.Second) {
		return 0, fmt.Errorf("%v seconds is too large", seconds)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "scalar"
	}
}

// dirOf handles both OS paths and the slash separated paths of an fs.FS
func dirOf(filePath string) string {
	if filepath.Separator != '/' && strings.ContainsRune(filePath, filepath.Separator) {
		return filepath.Dir(filePath)
	}
	return path.Dir(filePath)
}
