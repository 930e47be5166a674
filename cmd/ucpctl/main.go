// Command ucpctl validates, lists and invokes the capabilities of a manifest.
package main

import (
	"os"

	"github.com/vishalmysore/ucpexample/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
