// Command jspipe pipes batches of JavaScript files through an external
// Closure Compiler process using its JSON streams protocol.
package main

import (
	"fmt"
	"os"

	"github.com/tidewater-labs/jspipe/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
