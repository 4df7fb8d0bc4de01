package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Iron-Ham/parsort/internal/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
