package main

import (
	"fmt"
	"os"

	"github.com/haldiza/recapd/internal/adapters/driving/cli"
)

// version is stamped by the linker at release time.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
