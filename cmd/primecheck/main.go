// primecheck checks whether a number is prime or finds the closest prime
// number above or below it. It is the program the example suite tests.
package main

import (
	"os"

	"gitlab.com/technofab/duttest/internal/prime"
)

func main() {
	os.Exit(prime.Run(os.Args[1:], os.Stdout, os.Stderr))
}
