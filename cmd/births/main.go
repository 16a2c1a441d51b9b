// Package main is the entry point for the births CLI binary.
package main

import (
	"os"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
