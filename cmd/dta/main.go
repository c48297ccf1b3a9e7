// dta aggregates line-oriented records by their timestamps.
package main

import (
	"os"

	"github.com/datetimeagg/dta/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
