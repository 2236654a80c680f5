// Command docent answers questions against a personal document
// collection using vector search over summaries and a language model.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/docent-dev/docent/internal/adapters/driving/cli"
)

func main() {
	// A .env file is a convenience for local use; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
