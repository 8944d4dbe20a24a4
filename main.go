package main

import (
	"os"

	"github.com/abhisek/fieldsurvey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
