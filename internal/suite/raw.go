package suite

import (
	"gopkg.in/yaml.v3"
)

// rawSuite mirrors the suite file. Expectation fields stay nodes, their
// meaning depends on the shape of the value.
type rawSuite struct {
	Name  string    `yaml:"name"`
	Tests []rawTest `yaml:"tests"`
}

type rawTest struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Command     string     `yaml:"command"`
	Stdout      *yaml.Node `yaml:"stdout"`
	Stderr      *yaml.Node `yaml:"stderr"`
	ReturnCode  *yaml.Node `yaml:"returnCode"`
	Timeout     *yaml.Node `yaml:"timeout"`

	line    int
	unknown []string
}

var knownTestFields = map[string]bool{
	"name":        true,
	"description": true,
	"command":     true,
	"stdout":      true,
	"stderr":      true,
	"returnCode":  true,
	"timeout":     true,
}

func (t *rawTest) UnmarshalYAML(value *yaml.Node) error {
	type plain rawTest
	if err := value.Decode((*plain)(t)); err != nil {
		return err
	}
	t.line = value.Line

	// node decoding does not inherit KnownFields from the outer decoder
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if key := value.Content[i].Value; !knownTestFields[key] {
				t.unknown = append(t.unknown, key)
			}
		}
	}
	return nil
}

type rawOutput struct {
	File  *string `yaml:"file"`
	Regex *string `yaml:"regex"`
	Text  *string `yaml:"text"`
}

type rawReturnCode struct {
	Satisfies   string `yaml:"satisfies"`
	Description string `yaml:"description"`
	Value       *int   `yaml:"value"`
	Min         *int   `yaml:"min"`
	Max         *int   `yaml:"max"`
}
