package main

import (
	"fmt"
	"os"

	"github.com/abdidvp/sonarfix/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sonarfix:", err)
		os.Exit(1)
	}
}
