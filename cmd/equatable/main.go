// Command equatable generates structural equality and hashing methods for
// annotated Go struct types.
package main

import (
	"os"

	"github.com/syssam/equatable/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
