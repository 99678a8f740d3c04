package main

import (
	"os"

	"github.com/AllieBaig/lingoquest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
