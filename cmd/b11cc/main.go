package main

import (
	"os"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/cmd/b11cc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
