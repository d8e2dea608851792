package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/grazer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.Redact(err.Error()))
		os.Exit(1)
	}
}
