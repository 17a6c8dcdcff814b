package main

import (
	"os"

	"github.com/plantops/plantquery/cmd/plantquery/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
