package main

import (
	"fmt"
	"os"

	"github.com/templui/stepboard/cmd/stepctl/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
