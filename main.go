// Command article-service stores articles and serves the article filter API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonesrussell/north-cloud/article-service/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
