// Command plane inspects plane configuration and runs the terminal demo.
package main

import (
	"os"

	"github.com/go-drift/plane/cmd/plane/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
