// Command typedtext plays text transitions in the terminal.
package main

import (
	"os"

	"github.com/go-drift/typedtext/cmd/typedtext/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
