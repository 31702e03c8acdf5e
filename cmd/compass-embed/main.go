// Command compass-embed chunks, embeds and searches course documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/compass-embed/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
