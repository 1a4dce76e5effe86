package main

import (
	"os"

	"github.com/apagar/certo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
