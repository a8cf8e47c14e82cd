package main

import (
	"os"

	"github.com/Xu-Jack11/aipartner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
