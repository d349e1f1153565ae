// Package suites embeds the example suites shipped with duttest
package suites

import "embed"

//go:embed primecheck
var FS embed.FS

// PrimeCheck is the path of the primecheck example suite inside FS
const PrimeCheck = "primecheck/suite.yaml"
