package main

import (
	"os"

	"github.com/egemenh/salestracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
