package main

import (
	"os"
	_ "time/tzdata"

	"github.com/m04kA/SMC-MentorshipService/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
