package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/whiscribe/whiscribe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
