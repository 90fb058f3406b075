package main

import (
	"os"

	"github.com/abhisek/mcqbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
