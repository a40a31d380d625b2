package main

import (
	"os"

	"github.com/msto63/werktag/cmd/werktag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
