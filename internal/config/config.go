package config

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

// DutEnv is the environment variable the DUT path defaults to
const DutEnv = "DUT"

type AppConfig struct {
	NumWorkers  int
	SuiteFiles  []string
	DutPath     string
	JunitPath   string
	UpdateFiles bool
	SkipPattern string
	PureEnv     bool
	NoColor     bool
	Example     bool
	Verbose     bool
}

// loads configuration from cli flags
func Load() AppConfig {
	cfg := AppConfig{}
	flag.IntVarP(&cfg.NumWorkers, "workers", "w", 4, "Amount of tests to run in parallel")
	flag.StringArrayVarP(&cfg.SuiteFiles, "suite", "f", nil, "Path to a YAML/JSON suite file, can be repeated (required unless --example)")
	flag.StringVarP(&cfg.DutPath, "dut", "d", os.Getenv(DutEnv), "Path of the program under test, substituted for $DUT (default $"+DutEnv+")")
	flag.StringVar(&cfg.JunitPath, "junit", "", "Path to generate JUNIT report to, leave empty to disable")
	flag.BoolVarP(&cfg.UpdateFiles, "update", "u", false, "Write actual output to file expectations")
	flag.StringVarP(&cfg.SkipPattern, "skip", "s", "", "Regular expression to skip tests (e.g., 'Fehlerfall.*|.*Variante 2.*')")
	flag.BoolVar(&cfg.PureEnv, "pure", false, "Run the DUT with an empty environment")
	flag.BoolVar(&cfg.NoColor, "no-color", false, "Disable coloring")
	flag.BoolVar(&cfg.Example, "example", false, "Run the embedded primecheck example suite")
	flag.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging")
	helpRequested := flag.BoolP("help", "h", false, "Show this menu")

	flag.Parse()

	if *helpRequested {
		fmt.Println("Usage of duttest:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if len(cfg.SuiteFiles) == 0 && !cfg.Example {
		log.Panic().Msg("Suite file path (-f or --suite) is required.")
	}
	if cfg.DutPath == "" {
		log.Panic().Msg("DUT path (-d or --dut) or $" + DutEnv + " is required.")
	}
	if cfg.NumWorkers < 1 {
		log.Panic().Int("workers", cfg.NumWorkers).Msg("At least one worker is required.")
	}

	if cfg.NoColor {
		text.DisableColors()
	}

	return cfg
}
