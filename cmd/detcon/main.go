package main

import (
	"fmt"
	"os"

	"github.com/kbrannigan/detcon/cmd/detcon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "detcon: %v\n", err)
		os.Exit(1)
	}
}
