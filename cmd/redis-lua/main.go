package main

import (
	"fmt"
	"os"

	"github.com/aidenwallis/go-redis-scripting/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
