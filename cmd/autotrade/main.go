package main

import (
	"os"

	"github.com/tanhoa/autotrade/cmd/autotrade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
