package main

import (
	"fmt"
	"os"

	"github.com/openkraft/autograder/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "autograder:", err)
		os.Exit(1)
	}
}
