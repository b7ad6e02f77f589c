// Command ttadmin administers a travel-planning backend: paginated CRUD over
// locations and transportations, route search, a terminal UI, and a stub
// backend for local use.
package main

import (
	"os"

	"github.com/mesh-intelligence/ttadmin/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
