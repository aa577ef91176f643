package main

import (
	"os"

	"github.com/sparktype/blockdown/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
