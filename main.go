// sdapps - typed schema.org entities for civic data.
//
// sdapps decodes JSON entity documents into a fixed hierarchy of kinds,
// converts them to and from RDF statements, and serves the resulting
// store over MCP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/imlapps/sdapps-sub000/cmd"
)

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
