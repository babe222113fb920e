package main

import (
	"os"

	"github.com/A-dvika/MindMaven/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
