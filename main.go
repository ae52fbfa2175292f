package main

import (
	"fmt"
	"os"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "go-onedoc:", errors.FormatError(err))
		os.Exit(errors.ExitCodeFor(err))
	}
}
